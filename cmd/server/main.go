package main

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/aare-ai/aare/pkg/api/verify"
	"github.com/aare-ai/aare/pkg/core/ontology"
)

// serverConfig is the optional config/server.yaml override, read before
// environment variables so env still takes precedence (SPEC_FULL.md §9).
type serverConfig struct {
	Port        string `yaml:"port"`
	OntologyDir string `yaml:"ontology_dir"`
	CORSOrigins string `yaml:"cors_origins"`
}

func main() {
	godotenv.Load()

	cfg := loadServerConfig("config/server.yaml")

	port := firstNonEmpty(os.Getenv("PORT"), cfg.Port, "8080")
	ontologyDir := firstNonEmpty(os.Getenv("ONTOLOGY_DIR"), cfg.OntologyDir, "./ontologies")
	corsRaw := firstNonEmpty(os.Getenv("CORS_ORIGINS"), cfg.CORSOrigins, "")

	var corsOrigins []string
	if corsRaw != "" {
		for _, o := range strings.Split(corsRaw, ",") {
			corsOrigins = append(corsOrigins, strings.TrimSpace(o))
		}
	}

	provider := ontology.NewProvider(ontologyDir)
	handler := verify.NewHandler(provider, corsOrigins)

	http.HandleFunc("/api/verify", handler.HandleVerify)
	http.HandleFunc("/api/ontologies", handler.HandleListOntologies)
	http.HandleFunc("/api/ontologies/", handler.HandleGetOntology)
	http.HandleFunc("/api/health", verify.HandleHealth)

	fmt.Printf("[server] ontology directory: %s\n", ontologyDir)
	fmt.Printf("[server] available ontologies: %v\n", provider.ListAvailable())
	fmt.Printf("[server] listening on :%s\n", port)
	fmt.Println("  - POST /api/verify")
	fmt.Println("  - GET  /api/ontologies")
	fmt.Println("  - GET  /api/ontologies/{name}")
	fmt.Println("  - GET  /api/health")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] server failed to start: %v\n", err)
		os.Exit(1)
	}
}

func loadServerConfig(path string) serverConfig {
	var cfg serverConfig
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Printf("[WARNING] failed to parse %s: %v\n", path, err)
	}
	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
