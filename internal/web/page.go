package web

import "html/template"

var pageTmpl = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>kitreport — {{.ClientName}}</title>
<style>
:root{--bg:#0f1117;--card:#161b22;--border:#30363d;--text:#e1e4e8;--muted:#8b949e;
--primary:#58a6ff;--green:#3fb950;--red:#f85149;--yellow:#d29922}
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Helvetica,Arial,sans-serif;
background:var(--bg);color:var(--text);line-height:1.5}
.container{max-width:960px;margin:0 auto;padding:24px}
h1{font-size:22px;margin-bottom:4px}
h2{font-size:16px;margin-bottom:12px}
.muted{color:var(--muted);font-size:13px}
.card{background:var(--card);border:1px solid var(--border);border-radius:8px;padding:20px;margin:16px 0}
label{display:block;font-size:13px;color:var(--muted);margin:10px 0 4px}
select,input{width:100%;background:#0d1117;color:var(--text);border:1px solid var(--border);
border-radius:4px;padding:6px 8px;font-size:14px}
button{background:var(--primary);color:#0d1117;border:0;border-radius:4px;padding:8px 16px;
margin-top:14px;font-weight:600;cursor:pointer}
.row{display:grid;grid-template-columns:1fr 1fr 1fr;gap:12px}
.alert{border:1px solid var(--border);border-left:4px solid var(--muted);border-radius:4px;
padding:10px 12px;margin-bottom:8px;font-size:14px}
.alert-success{border-left-color:var(--green)}
.alert-error{border-left-color:var(--red)}
.alert-info{border-left-color:var(--primary)}
table{width:100%;border-collapse:collapse;font-size:14px}
td,th{border-bottom:1px solid var(--border);padding:6px 4px;text-align:left}
td.num{text-align:right}
a{color:var(--primary);text-decoration:none}
</style>
</head>
<body>
<div class="container">
<h1>Subscriber Report</h1>
<p class="muted">{{.ClientName}} &middot; <a href="/logout">log out</a></p>

<div id="alerts">
{{range .Banners}}<div class="alert alert-{{.Severity}}">{{.Message}}</div>
{{end}}</div>

<div class="card">
<h2>Report range &amp; sources</h2>
<form method="post" action="/" id="report-form">
<div class="row">
<div>
<label for="facebook_tag">Facebook Ads tag</label>
{{with index .Boxes "facebook"}}<select id="facebook_tag" name="facebook_tag">
{{$sel := .Selected}}{{range .Options}}<option value="{{.Value}}"{{if eq $sel .Value}} selected{{end}}>{{.Label}}</option>
{{end}}</select>{{end}}
</div>
<div>
<label for="creator_tag">Creator Network tag</label>
{{with index .Boxes "creator"}}<select id="creator_tag" name="creator_tag">
{{$sel := .Selected}}{{range .Options}}<option value="{{.Value}}"{{if eq $sel .Value}} selected{{end}}>{{.Label}}</option>
{{end}}</select>{{end}}
</div>
<div>
<label for="sparkloop_tag">SparkLoop tag</label>
{{with index .Boxes "sparkloop"}}<select id="sparkloop_tag" name="sparkloop_tag">
{{$sel := .Selected}}{{range .Options}}<option value="{{.Value}}"{{if eq $sel .Value}} selected{{end}}>{{.Label}}</option>
{{end}}</select>{{end}}
</div>
</div>
<div class="row">
<div>
<label for="start_date">Start date</label>
<input type="date" id="start_date" name="start_date" value="{{.Form.StartDate}}">
</div>
<div>
<label for="end_date">End date</label>
<input type="date" id="end_date" name="end_date" value="{{.Form.EndDate}}">
</div>
<div>
<label for="include_open_rates">Open rates</label>
<input type="checkbox" id="include_open_rates" name="include_open_rates" value="true" style="width:auto"> include (background)
</div>
</div>
<button type="submit">Generate report</button>
</form>
</div>

<div class="card">
<h2>Client settings</h2>
<form method="post" action="/">
<div class="row">
<div>
<label for="client_start_date">Engagement start date</label>
<input type="date" id="client_start_date" name="client_start_date" value="{{if .Record}}{{.Record.StartDate}}{{end}}">
</div>
<div>
<label for="initial_subscriber_count">Initial subscriber count</label>
<input type="number" id="initial_subscriber_count" name="initial_subscriber_count" value="{{if .Record}}{{.Record.InitialSubscribers}}{{end}}">
</div>
</div>
<button type="submit">Save settings</button>
</form>
</div>

{{with .Results}}
<div class="card">
<h2>Results &middot; {{.StartDate}} to {{.EndDate}}</h2>
<table>
<tr><th>Source</th><th class="num">Subscribers</th><th class="num">Share</th></tr>
<tr><td>Total (window)</td><td class="num">{{.TotalSubscribers}}</td><td class="num"></td></tr>
<tr><td>Facebook Ads</td><td class="num">{{.FacebookSubscribers}}</td><td class="num">{{.FacebookPercent}}%</td></tr>
<tr><td>Creator Network</td><td class="num">{{.CreatorSubscribers}}</td><td class="num">{{.CreatorPercent}}%</td></tr>
<tr><td>SparkLoop</td><td class="num">{{.SparkloopSubscribers}}</td><td class="num">{{.SparkloopPercent}}%</td></tr>
<tr><td>Organic</td><td class="num">{{.OrganicSubscribers}}</td><td class="num">{{.OrganicPercent}}%</td></tr>
<tr><td>Paid (FB + SparkLoop)</td><td class="num">{{.PaidSubscribers}}</td><td class="num">{{.PaidGrowthPercent}}%</td></tr>
</table>
{{if .HasGrowth}}
<h2 style="margin-top:16px">Growth since {{.ClientStartDate}}</h2>
<table>
<tr><td>Total growth</td><td class="num">{{.TotalGrowth}}</td></tr>
<tr><td>Growth rate</td><td class="num">{{.GrowthRate}}%</td></tr>
<tr><td>Daily average before ({{.BeforePeriod}})</td><td class="num">{{.DailyAverageBefore}}</td></tr>
<tr><td>Daily average after ({{.AfterPeriod}})</td><td class="num">{{.DailyAverageAfter}}</td></tr>
</table>
{{end}}
{{if .OpenRatesTaskID}}
<p class="muted" style="margin-top:12px">Open rates task <code id="task-id">{{.OpenRatesTaskID}}</code>:
<span id="task-status">pending</span></p>
{{end}}
</div>
{{end}}

</div>
<script>
// alerts dismiss themselves after 5s, independently
document.querySelectorAll('.alert').forEach(function (el) {
  setTimeout(function () { el.remove(); }, 5000);
});

// live task status over the websocket
(function () {
  var idEl = document.getElementById('task-id');
  if (!idEl) return;
  var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
  var ws = new WebSocket(proto + location.host + '/ws');
  ws.onmessage = function (ev) {
    try {
      var msg = JSON.parse(ev.data);
      if (msg.type === 'task.status' && msg.task_id === idEl.textContent) {
        document.getElementById('task-status').textContent = msg.status;
      }
    } catch (e) { /* ignore non-JSON frames */ }
  };
})();
</script>
</body>
</html>
`))
