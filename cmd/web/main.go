package main

import (
	_ "embed"
	"html/template"
	"net"
	"net/http"
	"os"

	"github.com/tomz197/invaders/internal/config"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

var page = template.Must(template.New("index").Parse(htmlPage))

type pageData struct {
	SSHHost string
}

func main() {
	logger := config.NewLogger(os.Stderr, "invaders-web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	data := pageData{SSHHost: config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, data); err != nil {
			logger.Error("render page", "err", err)
		}
	})

	addr := net.JoinHostPort(host, port)
	logger.Info("Starting web server", "url", "http://"+addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
