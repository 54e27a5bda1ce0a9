package mail

import (
	"html/template"
	"strings"

	"SecurityNewsMonitor/internal/domain"
)

// The report layout follows the alert email this system has always sent:
// gradient header, risk banner, summary, priority items, per-article cards
// with vendor and source badges, recommendations, footer.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
body { font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
.container { background-color: white; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); overflow: hidden; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; }
.header h1 { margin: 0; font-size: 24px; }
.risk-banner { background-color: {{.RiskColor}}; color: white; padding: 20px; text-align: center; font-size: 20px; font-weight: bold; }
.section { padding: 20px; border-bottom: 1px solid #e9ecef; }
.section h2 { color: #495057; margin: 0 0 15px 0; font-size: 18px; }
.article { background-color: #f8f9fa; border-left: 4px solid #667eea; padding: 15px; margin-bottom: 15px; border-radius: 4px; }
.article h3 { margin: 0 0 10px 0; font-size: 16px; }
.article a { color: #667eea; text-decoration: none; }
.vendors { display: inline-block; background-color: #667eea; color: white; padding: 4px 12px; border-radius: 12px; font-size: 12px; margin: 5px 5px 5px 0; font-weight: 600; }
.source-badge { display: inline-block; background-color: #28a745; color: white; padding: 3px 10px; border-radius: 10px; font-size: 11px; margin-left: 10px; }
.multi-source { background-color: #ffc107; color: #333; }
.description { color: #6c757d; font-size: 14px; margin-top: 10px; }
.recommendation { color: #856404; font-size: 13px; margin-top: 8px; }
.list-box { background-color: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; border-radius: 4px; }
.priority { background-color: #f8d7da; border-left: 4px solid #dc3545; padding: 15px; border-radius: 4px; }
.footer { background-color: #f8f9fa; padding: 20px; text-align: center; color: #6c757d; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Security News Alert</h1>
    <p>Daily Security Vulnerability Report - {{.Date}}</p>
  </div>
  <div class="risk-banner">Overall Risk Level: {{.Risk}}</div>
  <div class="section">
    <h2>Summary</h2>
    <p>{{.Summary}}</p>
    <p><strong>Articles Found:</strong> {{.ArticleCount}}</p>
  </div>
{{if .PriorityItems}}  <div class="section">
    <h2>Priority Items</h2>
    <div class="priority"><ul>{{range .PriorityItems}}<li>{{.}}</li>{{end}}</ul></div>
  </div>
{{end}}  <div class="section">
    <h2>Security News Articles</h2>
{{range .Articles}}    <div class="article">
      <h3>{{.Index}}. {{.Title}}</h3>
      <div>{{range .Vendors}}<span class="vendors">{{.}}</span>{{end}}{{if .MultiSource}}<span class="source-badge multi-source">Best from: {{.SourceLabel}}</span>{{else}}<span class="source-badge">{{.SourceLabel}}</span>{{end}}</div>
      <p class="description">{{.Summary}}</p>
{{if .Recommendation}}      <p class="recommendation">Recommended: {{.Recommendation}}</p>
{{end}}      <p><a href="{{.URL}}">Read Full Article</a></p>
    </div>
{{end}}  </div>
{{if .Recommendations}}  <div class="section">
    <h2>Recommended Actions</h2>
    <div class="list-box"><ul>{{range .Recommendations}}<li>{{.}}</li>{{end}}</ul></div>
  </div>
{{end}}  <div class="footer">
    <p>This report was automatically generated by Security News Monitor</p>
    <p>Monitoring {{.VendorCount}} vendors for security vulnerabilities</p>
  </div>
</div>
</body>
</html>
`))

type reportView struct {
	Date            string
	Risk            string
	RiskColor       string
	Summary         string
	ArticleCount    int
	VendorCount     int
	PriorityItems   []string
	Recommendations []string
	Articles        []articleView
}

type articleView struct {
	Index          int
	Title          string
	URL            string
	Summary        string
	Vendors        []string
	SourceLabel    string
	MultiSource    bool
	Recommendation string
}

func riskColor(level domain.RiskLevel) string {
	switch level {
	case domain.RiskCritical:
		return "#dc3545"
	case domain.RiskHigh:
		return "#fd7e14"
	case domain.RiskMedium:
		return "#ffc107"
	default:
		return "#28a745"
	}
}

func newReportView(report domain.RunReport) reportView {
	view := reportView{
		Date:         report.GeneratedAt.Format("January 2, 2006"),
		Risk:         strings.ToUpper(string(report.OverallRisk)),
		RiskColor:    riskColor(report.OverallRisk),
		Summary:      "Security vulnerabilities detected affecting your monitored vendors.",
		ArticleCount: len(report.Articles),
		VendorCount:  len(report.VendorSnapshot),
	}
	if report.Analysis != nil {
		if report.Analysis.Summary != "" {
			view.Summary = report.Analysis.Summary
		}
		view.PriorityItems = report.Analysis.PriorityItems
		view.Recommendations = report.Analysis.Recommendations
	}

	for i, a := range report.Articles {
		av := articleView{
			Index:          i + 1,
			Title:          a.Title,
			URL:            a.URL,
			Summary:        a.Summary,
			SourceLabel:    a.Source,
			Recommendation: a.Recommendation,
		}
		for _, v := range a.MatchedVendors {
			av.Vendors = append(av.Vendors, strings.ToUpper(v))
		}
		if len(a.AlsoSeenIn) > 1 {
			av.MultiSource = true
			av.SourceLabel = strings.Join(a.AlsoSeenIn, ", ")
		}
		view.Articles = append(view.Articles, av)
	}
	return view
}

func renderReport(report domain.RunReport) (string, error) {
	var b strings.Builder
	if err := reportTemplate.Execute(&b, newReportView(report)); err != nil {
		return "", err
	}
	return b.String(), nil
}
