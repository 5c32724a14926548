package web

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/implantsim/internal/config"
	"github.com/san-kum/implantsim/internal/experiment"
	"github.com/san-kum/implantsim/internal/viz"
)

var pageTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>implantsim · {{.Kind.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; display: flex; color: #222; }
aside { width: 300px; padding: 16px; background: #f3f6fb; min-height: 100vh; box-sizing: border-box; }
main { padding: 16px; flex: 1; }
label { display: block; margin-top: 10px; font-size: 13px; }
input, select { width: 100%; box-sizing: border-box; }
.err { color: #b00020; }
table { border-collapse: collapse; margin-top: 12px; }
td { padding: 2px 12px 2px 0; font-size: 13px; }
</style>
</head>
<body>
<aside>
<h3>Implant Drug Release</h3>
<form method="get" action="/">
<label>Model
<select name="kind" onchange="this.form.submit()">
{{- range .Kinds}}
<option value="{{.Name}}"{{if eq .Name $.Kind.Name}} selected{{end}}>{{.Title}}</option>
{{- end}}
</select>
</label>
{{- range .Fields}}
<label>{{.Spec.Label}}
<input type="number" name="{{.Spec.Name}}" value="{{.Value}}" min="{{.Spec.Min}}" max="{{.Spec.Max}}" step="{{.Spec.Step}}">
</label>
{{- end}}
<label>View
<select name="mode">
<option value="2d"{{if eq .Mode "2d"}} selected{{end}}>2D plot</option>
<option value="3d"{{if eq .Mode "3d"}} selected{{end}}>3D plot</option>
</select>
</label>
<label>3D colours
<select name="scale">
<option value=""{{if eq .Scale ""}} selected{{end}}>default</option>
{{- range .Scales}}
<option value="{{.Name}}"{{if eq .Name $.Scale}} selected{{end}}>{{.Name}}</option>
{{- end}}
</select>
</label>
<p><button type="submit">Simulate</button></p>
</form>
<p><a href="{{.CSVURL}}">Download CSV</a></p>
</aside>
<main>
{{- if .Err}}
<p class="err">{{.Err}}</p>
{{- else}}
{{.Chart}}
<table>
{{- range $name, $v := .Metrics}}
<tr><td>{{$name}}</td><td>{{printf "%.4g" $v}}</td></tr>
{{- end}}
</table>
{{- end}}
</main>
</body>
</html>
`))

type pageField struct {
	Spec  config.ParamSpec
	Value string
}

type pageData struct {
	Kinds   []experiment.Kind
	Kind    experiment.Kind
	Fields  []pageField
	Mode    string
	Scale   string
	Scales  []viz.ColorScale
	Chart   template.HTML
	Metrics map[string]float64
	CSVURL  string
	Err     string
}

func (s *Server) index(c *gin.Context) {
	kindName := c.DefaultQuery("kind", s.reg.Names()[0])
	k, err := s.reg.Get(kindName)
	if err != nil {
		s.fail(c, err)
		return
	}
	mode := c.DefaultQuery("mode", "2d")
	scale := c.Query("scale")
	data := pageData{Kinds: s.reg.Kinds(), Kind: k, Mode: mode, Scale: scale, Scales: viz.Scales}

	var res *experiment.Result
	params, err := queryParams(c, k)
	if err == nil {
		res, err = s.run(c, k.Name, params, 0)
	}
	var svg string
	if err == nil {
		svg, err = res.ChartSVG(mode, scale)
	}
	status := http.StatusOK
	if err != nil {
		s.metrics.fail()
		status = statusFor(err)
		data.Err = err.Error()
		params = k.Clamp(nil)
	} else {
		params = res.Params
		data.Metrics = res.Metrics
		// inline without the XML declaration; labels are already escaped
		data.Chart = template.HTML(svg[strings.Index(svg, "<svg"):])
	}

	q := url.Values{}
	for _, spec := range k.Params {
		v := strconv.FormatFloat(params[spec.Name], 'g', -1, 64)
		data.Fields = append(data.Fields, pageField{Spec: spec, Value: v})
		q.Set(spec.Name, v)
	}
	data.CSVURL = "/api/simulate/" + k.Name + "/csv?" + q.Encode()

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := pageTmpl.Execute(c.Writer, data); err != nil {
		s.log.WithError(err).Warn("render page")
	}
}
