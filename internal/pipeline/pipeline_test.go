
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seolens-go-analyzer/internal/config"
	"seolens-go-analyzer/internal/models"
	"seolens-go-analyzer/pkg/logger"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Fetch.MaxRetries = 0
	cfg.Fetch.RetryBaseDelay = config.Duration(time.Millisecond)
	cfg.Fetch.HostRPS = 1000
	cfg.Discovery.MaxURLs = 10
	return cfg
}

const productPage = `<html lang="es"><head>
<title>Zapatillas Runner Pro | ShoeCo</title>
<meta name="description" content="Zapatillas de running para entrenar">
<meta property="og:type" content="product">
<meta property="og:site_name" content="ShoeCo">
<script type="application/ld+json">
{"@type":"Product","name":"Runner Pro","offers":{"price":"89.95","priceCurrency":"EUR"}}
</script>
</head><body>
<h1>Zapatillas Runner Pro</h1>
<p>Compra las zapatillas Runner Pro por 89,95 €. Añadir al carrito para recibir
envío gratis. Las zapatillas running ofrecen amortiguación para corredores que
entrenan a diario. La suela de goma mejora la tracción en asfalto y en pista de
atletismo. Disponibles en todas las tallas con devolución gratuita.</p>
</body></html>`

const blogPage = `<html lang="es"><head>
<title>Guía para elegir zapatillas | ShoeCo</title>
<meta property="og:type" content="article">
</head><body>
<h1>Guía para elegir zapatillas</h1>
<p>Publicado por el equipo de ShoeCo. Qué es la amortiguación y cómo elegir
zapatillas running adecuadas. Esta guía explica los consejos esenciales para
corredores: peso, suela, tallas y frecuencia de entrenamiento. Aprende paso a
paso a comparar modelos antes de decidir tu próxima compra deportiva.</p>
</body></html>`

func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0"?><urlset>
<url><loc>%[1]s/producto/runner-pro</loc></url>
<url><loc>%[1]s/blog/guia-zapatillas</loc></url>
<url><loc>%[1]s/rota</loc></url>
</urlset>`, ts.URL)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		switch r.URL.Path {
		case "/", "/producto/runner-pro":
			fmt.Fprint(w, productPage)
		case "/blog/guia-zapatillas":
			fmt.Fprint(w, blogPage)
		case "/rota":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	})
	return ts
}

func TestAnalyzeURL(t *testing.T) {
	ts := newTestSite(t)
	pipe := New(testConfig(), logger.New())

	result, err := pipe.AnalyzeURL(context.Background(), ts.URL+"/producto/runner-pro", models.DefaultWeights())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.Failed() {
		t.Fatalf("unexpected failure: %s", result.Error)
	}
	if result.Type != models.TypeCommerce {
		t.Fatalf("want commerce, got %s", result.Type)
	}
	if result.Meta.Title == "" || result.Stats.Words == 0 {
		t.Fatalf("meta/stats missing: %+v", result)
	}
	if len(result.Products) != 1 || result.Products[0].Name != "Runner Pro" {
		t.Fatalf("products: %+v", result.Products)
	}
	total := len(result.Keywords.Client) + len(result.Keywords.ProductOrPost) + len(result.Keywords.GeneralSEO)
	if total == 0 {
		t.Fatal("expected keywords in at least one bucket")
	}
}

func TestAnalyzeURLFetchFailure(t *testing.T) {
	ts := newTestSite(t)
	pipe := New(testConfig(), logger.New())

	result, err := pipe.AnalyzeURL(context.Background(), ts.URL+"/rota", models.DefaultWeights())
	if err != nil {
		t.Fatalf("analyze should not error on fetch failure: %v", err)
	}
	if !result.Failed() {
		t.Fatal("expected failed result for http 500")
	}
}

func TestAnalyzeURLRejectsInvalidWeights(t *testing.T) {
	pipe := New(testConfig(), logger.New())
	if _, err := pipe.AnalyzeURL(context.Background(), "https://x.example/", models.Weights{}); err == nil {
		t.Fatal("expected error for zero weight vector")
	}
}

func TestAnalyzeDomain(t *testing.T) {
	ts := newTestSite(t)
	pipe := New(testConfig(), logger.New())

	report, err := pipe.AnalyzeDomain(context.Background(), ts.URL, 10, 0, models.DefaultWeights())
	if err != nil {
		t.Fatalf("analyze domain: %v", err)
	}
	// homepage + product + blog + broken page
	if report.Summary.TotalURLs != 4 {
		t.Fatalf("want 4 urls, got %d (%+v)", report.Summary.TotalURLs, report.Summary)
	}
	if report.Summary.Failed != 1 {
		t.Fatalf("want 1 failed url, got %d", report.Summary.Failed)
	}
	if report.Summary.Processed != 3 {
		t.Fatalf("want 3 processed urls, got %d", report.Summary.Processed)
	}
	if report.Summary.ByType[models.TypeCommerce] == 0 {
		t.Fatalf("type distribution missing commerce: %v", report.Summary.ByType)
	}
	if len(report.URLs) != 4 {
		t.Fatalf("want all per-page results, got %d", len(report.URLs))
	}
}

func TestAnalyzeDomainHonorsRequestTimeout(t *testing.T) {
	ts := newTestSite(t)
	pipe := New(testConfig(), logger.New())

	// an already-expired budget must abort discovery instead of
	// falling back to the configured domain timeout
	_, err := pipe.AnalyzeDomain(context.Background(), ts.URL, 10, time.Nanosecond, models.DefaultWeights())
	if err == nil {
		t.Fatal("expected error when the request timeout expires during discovery")
	}
}

func TestReadingTime(t *testing.T) {
	cases := []struct{ words, want int }{
		{0, 0}, {1, 1}, {200, 1}, {201, 2}, {1000, 5},
	}
	for _, c := range cases {
		if got := readingTime(c.words); got != c.want {
			t.Errorf("readingTime(%d): want %d, got %d", c.words, c.want, got)
		}
	}
}
