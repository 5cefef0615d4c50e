package webmap

import "html/template"

type templateData struct {
	CenterLat    float64
	CenterLon    float64
	Zoom         int
	SatelliteURL string
	Caption      string
	ScaleMin     string
	ScaleMax     string
	Gradient     template.CSS
	GeoJSON      template.JS
	Markers      template.JS
}

func jsValue(data []byte) template.JS {
	return template.JS(data)
}

var documentTemplate = template.Must(template.New("webmap").Parse(documentHTML))

const documentHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<title>{{.Caption}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<link rel="stylesheet" href="https://unpkg.com/leaflet-minimap@3.6.1/dist/Control.MiniMap.min.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet-minimap@3.6.1/dist/Control.MiniMap.min.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; }
  .district-marker {
    width: 14px; height: 14px;
    border: 1px solid #333;
    text-align: center;
    font: 9px/14px sans-serif;
    color: #111;
  }
  .rate-legend {
    background: #fff;
    padding: 8px 10px;
    font: 12px sans-serif;
    border-radius: 4px;
    box-shadow: 0 1px 4px rgba(0,0,0,0.4);
  }
  .rate-legend .bar { height: 12px; width: 220px; background: {{.Gradient}}; }
  .rate-legend .ends { display: flex; justify-content: space-between; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map', { center: [{{.CenterLat}}, {{.CenterLon}}], zoom: {{.Zoom}} });

var osm = L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
var light = L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors &copy; CARTO'
});
var satellite = L.tileLayer('{{.SatelliteURL}}', {
  attribution: 'Imagery'
});

var boundaries = L.geoJSON({{.GeoJSON}}, {
  style: { color: '#000', weight: 1, fill: false }
}).addTo(map);

var markers = L.layerGroup().addTo(map);
var markerData = {{.Markers}};
markerData.forEach(function (m) {
  var icon = L.divIcon({
    className: '',
    iconSize: [14, 14],
    html: '<div class="district-marker" style="background:' + m.color + '">' + m.label + '</div>'
  });
  L.marker([m.lat, m.lon], { icon: icon }).bindTooltip(m.tooltip).addTo(markers);
});

L.control.layers(
  { 'OpenStreetMap': osm, 'CartoDB Positron': light, 'Satellite': satellite },
  { 'District boundaries': boundaries, 'Schools per 1000': markers },
  { collapsed: false }
).addTo(map);

var legend = L.control({ position: 'bottomright' });
legend.onAdd = function () {
  var div = L.DomUtil.create('div', 'rate-legend');
  div.innerHTML = '<div>{{.Caption}}</div>' +
    '<div class="bar"></div>' +
    '<div class="ends"><span>{{.ScaleMin}}</span><span>{{.ScaleMax}}</span></div>';
  return div;
};
legend.addTo(map);

new L.Control.MiniMap(L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png'), {
  toggleDisplay: true
}).addTo(map);
</script>
</body>
</html>
`
