package cli

const wifiTemplate = `
=== WiFi Network ===
SSID:     {{.SSID}}
Password: {{.Password}}
Security: {{.Security}}
Hidden:   {{if .Hidden}}Yes{{else}}No{{end}}
`

const statusTemplate = `=== Session Status ===

Server:       {{.ServerURL}}
Session ID:   {{.SessionID}}
Expires:      {{.Expires}}
{{- if .Remote }}
WiFi columns: {{if .Remote.AnalyzeWiFi}}on{{else}}off{{end}}
History:      {{.Remote.HistorySize}} record(s)
Last active:  {{.LastActive}}
{{- end}}
`
