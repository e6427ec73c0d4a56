
package models

import "time"

// DiscoverySource records how a crawl target was found.
type DiscoverySource string

const (
	DiscoveredSitemap DiscoverySource = "sitemap"
	DiscoveredCrawl   DiscoverySource = "crawl"
)

// CrawlTarget is a URL selected for analysis. Immutable once built;
// consumed exactly once by the fetch scheduler.
type CrawlTarget struct {
	URL            string          `json:"url"`
	DiscoveredFrom DiscoverySource `json:"discoveredFrom"`
	LastModified   *time.Time      `json:"lastModified,omitempty"`
	Priority       float64         `json:"priority,omitempty"`
}

// FetchResult is the outcome of one fetch attempt, success or not.
type FetchResult struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
	ElapsedMs   int64
	Err         error
}

// Headings holds the first three heading levels in document order.
type Headings struct {
	H1 []string `json:"h1"`
	H2 []string `json:"h2"`
	H3 []string `json:"h3"`
}

// StructuredRecord is one schema.org record (JSON-LD or microdata),
// kept verbatim for the classifier and product extraction.
type StructuredRecord struct {
	Type       string            `json:"type"`
	Source     string            `json:"source"` // "json-ld" or "microdata"
	Raw        map[string]any    `json:"raw,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// PageDocument is the structured form of a fetched page. Built once,
// read-only afterwards.
type PageDocument struct {
	URL             string             `json:"url"`
	Title           string             `json:"title"`
	MetaDescription string             `json:"metaDescription"`
	OpenGraph       map[string]string  `json:"openGraph,omitempty"`
	Canonical       string             `json:"canonical,omitempty"`
	Language        string             `json:"language,omitempty"`
	Headings        Headings           `json:"headings"`
	StructuredData  []StructuredRecord `json:"structuredData,omitempty"`
	MainText        string             `json:"mainText"`
	WordCount       int                `json:"wordCount"`
	InternalLinks   []string           `json:"internalLinks,omitempty"`
	ExternalLinks   []string           `json:"externalLinks,omitempty"`
	Degraded        bool               `json:"extractionDegraded,omitempty"`
}

// PageType classifies a page as commerce, content or a mix of both.
type PageType string

const (
	TypeCommerce PageType = "commerce"
	TypeContent  PageType = "content"
	TypeMixed    PageType = "mixed"
)

// Intent is the dominant search intent of a page.
type Intent string

const (
	IntentInformational Intent = "informational"
	IntentConsideration Intent = "consideration"
	IntentCommercial    Intent = "commercial"
)

// Product is one item extracted from structured product markup.
type Product struct {
	Name     string  `json:"nombre"`
	Category string  `json:"categoria,omitempty"`
	Brand    string  `json:"marca,omitempty"`
	Price    float64 `json:"precio,omitempty"`
	Currency string  `json:"moneda,omitempty"`
}

// BrandInfo is the page's best guess at the site's brand identity,
// used by the similarity score component and bucketing.
type BrandInfo struct {
	Name       string  `json:"name,omitempty"`
	Domain     string  `json:"domain,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Classification is derived deterministically from a PageDocument.
type Classification struct {
	PageType PageType  `json:"pageType"`
	Audience []string  `json:"audience"`
	Intent   Intent    `json:"intent"`
	Sector   string    `json:"sector,omitempty"`
	Products []Product `json:"products,omitempty"`
	Brand    BrandInfo `json:"brand"`
}

// Algorithm names the source extractor of a candidate keyword.
type Algorithm string

const (
	AlgoStatistical Algorithm = "statistical"
	AlgoEmbedding   Algorithm = "embedding"
)

// CandidateKeyword is a raw, pre-scoring extraction result.
type CandidateKeyword struct {
	Term      string
	Sources   []Algorithm
	RawScore  float64
	Positions []int
}

// Bucket is the output category of a scored keyword.
type Bucket string

const (
	BucketClient        Bucket = "client"
	BucketProductOrPost Bucket = "productOrPost"
	BucketGeneralSEO    Bucket = "generalSeo"
)

// ScoreComponents keeps the per-component breakdown for explainability.
// Each component is in [0,1].
type ScoreComponents struct {
	Contextual  float64 `json:"contextual"`
	Relevance   float64 `json:"relevance"`
	Position    float64 `json:"position"`
	Frequency   float64 `json:"frequency"`
	SectorBoost float64 `json:"sectorBoost"`
}

// ScoredKeyword is the final per-page keyword artifact. Score is in [0,1].
type ScoredKeyword struct {
	Term       string          `json:"term"`
	Score      float64         `json:"score"`
	Components ScoreComponents `json:"components"`
	Bucket     Bucket          `json:"bucket"`
	Frequency  int             `json:"-"`
}

// PageStats mirrors the stats block of the URL analysis contract.
type PageStats struct {
	Words          int `json:"words"`
	ReadingTimeMin int `json:"reading_time_min"`
	InternalLinks  int `json:"internal_links"`
	ExternalLinks  int `json:"external_links"`
}

// KeywordScore is the wire form of a keyword inside a bucket.
type KeywordScore struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// KeywordBuckets is the three-bucket keyword output of a page.
type KeywordBuckets struct {
	Client        []KeywordScore `json:"cliente"`
	ProductOrPost []KeywordScore `json:"producto_o_post"`
	GeneralSEO    []KeywordScore `json:"generales_seo"`
}

// PageMeta is the meta block of the URL analysis contract.
type PageMeta struct {
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	Canonical     string `json:"canonical,omitempty"`
	Lang          string `json:"lang,omitempty"`
}

// PageResult is the full analysis of one URL.
type PageResult struct {
	URL      string         `json:"url"`
	Type     PageType       `json:"tipo"`
	Meta     PageMeta       `json:"meta"`
	Headings Headings       `json:"headings"`
	Stats    PageStats      `json:"stats"`
	Audience []string       `json:"audiencia"`
	Intent   Intent         `json:"intencion"`
	Products []Product      `json:"productos"`
	Keywords KeywordBuckets `json:"keywords"`
	Degraded bool           `json:"degraded,omitempty"`
	Partial  bool           `json:"partialExtraction,omitempty"`
	FetchMs  int64          `json:"fetchMs,omitempty"`
	Error    string         `json:"error,omitempty"`

	// Scored keeps the per-page scored keywords for domain aggregation;
	// it is not part of the wire contract.
	Scored []ScoredKeyword `json:"-"`
}

// Failed reports whether the page produced no usable document.
func (p *PageResult) Failed() bool { return p.Error != "" }

// DomainSummary is the resumen block of the domain analysis contract.
type DomainSummary struct {
	TotalURLs     int              `json:"total_urls"`
	Processed     int              `json:"urls_processed"`
	Failed        int              `json:"urls_failed"`
	Degraded      int              `json:"urls_degraded"`
	ByType        map[PageType]int `json:"por_tipo"`
	ByAudience    map[string]int   `json:"por_audiencia,omitempty"`
	ByIntent      map[Intent]int   `json:"por_intencion,omitempty"`
	TopClient     []KeywordScore   `json:"top_keywords_cliente"`
	TopProduct    []KeywordScore   `json:"top_keywords_producto"`
	TopGeneralSEO []KeywordScore   `json:"top_keywords_generales"`
}

// DomainReport is the full domain analysis response.
type DomainReport struct {
	Domain  string        `json:"domain"`
	Summary DomainSummary `json:"resumen"`
	URLs    []*PageResult `json:"urls"`
}
