package api

import "html/template"

type indexData struct {
	Error string
}

type resultData struct {
	PointA     string
	PointB     string
	DistanceKM string
	MapHTML    string
}

var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
	<title>Route Finder</title>
	<style>
		body { font-family: Arial; text-align: center; margin-top: 50px; }
		input { padding: 8px; margin: 5px; width: 250px; }
		button { padding: 8px 16px; }
		.error { color: #b00020; }
	</style>
</head>
<body>
	<h2>Shortest Route Finder</h2>
	<form action="/route" method="post">
		<input type="text" name="pointA" placeholder="Enter starting point (e.g. UPM)" required><br>
		<input type="text" name="pointB" placeholder="Enter destination (e.g. KLCC)" required><br>
		<button type="submit">Find Route</button>
	</form>
	{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
</body>
</html>
`))

var resultPage = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head>
	<title>Route Result</title>
	<style>
		body { font-family: Arial; text-align: center; margin-top: 30px; }
		iframe { margin-top: 20px; border: none; width: 90%; height: 600px; }
	</style>
</head>
<body>
	<h2>Shortest Route Found</h2>
	<p><b>From:</b> {{.PointA}} <br><b>To:</b> {{.PointB}}</p>
	<p>Total Distance: {{.DistanceKM}} km</p>
	<iframe srcdoc="{{.MapHTML}}"></iframe>
	<br><a href="/">&larr; Back</a>
</body>
</html>
`))
