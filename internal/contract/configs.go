package contract

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/davidkimai/recursive-distill/schema"
)

// Default values for configuration.
const (
	DefaultPrecision    = 2
	MaxPrecision        = 6
	DefaultPlatformURL  = "https://api.github.com"
	DefaultTokenEnv     = "DISTILL_TOKEN"
	DefaultArtifactsDir = ".distill"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ComponentWeightsRaw holds custom geometric-mean exponents from the
// YAML config file. Use float64 pointers so absent fields keep their
// defaults.
type ComponentWeightsRaw struct {
	Signal   *float64 `mapstructure:"signal"`
	Feedback *float64 `mapstructure:"feedback"`
	Bounded  *float64 `mapstructure:"bounded"`
	Elastic  *float64 `mapstructure:"elastic"`
}

// StubFactorsRaw holds overrides for the placeholder factor constants.
type StubFactorsRaw struct {
	TermConsistency          *float64 `mapstructure:"term-consistency"`
	MethodBoundary           *float64 `mapstructure:"method-boundary"`
	ContradictionIntegration *float64 `mapstructure:"contradiction-integration"`
	MultiPerspective         *float64 `mapstructure:"multi-perspective"`
	UncertaintyDensity       *float64 `mapstructure:"uncertainty-density"`
	LimitationAcknowledgment *float64 `mapstructure:"limitation-acknowledgment"`
}

// LexiconsRawInput holds keyword list extensions from the YAML config
// file. Slice fields extend the built-in lexicons; the sentinel markers
// replace them.
type LexiconsRawInput struct {
	AssertionVerbs   []string `mapstructure:"assertion-verbs"`
	CitationPatterns []string `mapstructure:"citation-patterns"`
	FeedbackTerms    []string `mapstructure:"feedback-terms"`
	Stopwords        []string `mapstructure:"stopwords"`
	ResidueStart     string   `mapstructure:"residue-start"`
	ResidueEnd       string   `mapstructure:"residue-end"`
}

// Config holds the runtime configuration for an engine run.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath     string
	DocsDir      string
	ArtifactsDir string

	PlatformURL  string
	PlatformRepo string // owner/name, empty means platform disabled
	TokenEnv     string
	Token        string // Resolved from TokenEnv, never persisted

	Window               time.Duration
	PublicationThreshold float64
	MinimumThreshold     float64
	HistoryCap           int

	Params   schema.ScoringParams
	Lexicons schema.Lexicons

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	StoreBackend schema.DatabaseBackend
	StoreConnect string // Please use env var as this is plaintext
	CacheTTL     time.Duration
	Refresh      bool

	Excludes  []string
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	DocsDir      string  `mapstructure:"docs"`
	ArtifactsDir string  `mapstructure:"artifacts"`
	PlatformURL  string  `mapstructure:"platform-url"`
	PlatformRepo string  `mapstructure:"platform-repo"`
	TokenEnv     string  `mapstructure:"token-env"`
	Window       string  `mapstructure:"window"`
	Publication  float64 `mapstructure:"publication-threshold"`
	Minimum      float64 `mapstructure:"min-threshold"`
	HistoryCap   int     `mapstructure:"history-cap"`
	Exclude      string  `mapstructure:"exclude"`
	Precision    int     `mapstructure:"precision"`
	Output       string  `mapstructure:"output"`
	OutputFile   string  `mapstructure:"output-file"`
	Width        int     `mapstructure:"width"`
	StoreBackend string  `mapstructure:"store-backend"`
	StoreConnect string  `mapstructure:"store-connect"`
	CacheTTL     string  `mapstructure:"cache-ttl"`
	Refresh      bool    `mapstructure:"refresh"`
	Color        string  `mapstructure:"color"`

	// --- Scoring overrides from config file ---
	Weights  ComponentWeightsRaw `mapstructure:"weights"`
	Stubs    StubFactorsRaw      `mapstructure:"stub-factors"`
	Lexicons LexiconsRawInput    `mapstructure:"lexicons"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	if c.Params.ComponentWeights != nil {
		clone.Params.ComponentWeights = make(map[schema.Component]float64)
		maps.Copy(clone.Params.ComponentWeights, c.Params.ComponentWeights)
	}
	if c.Lexicons.ClassKeywords != nil {
		clone.Lexicons.ClassKeywords = make(map[schema.ResidueClass][]string)
		for class, words := range c.Lexicons.ClassKeywords {
			clone.Lexicons.ClassKeywords[class] = cloneStrings(words)
		}
	}
	clone.Lexicons.AssertionVerbs = cloneStrings(c.Lexicons.AssertionVerbs)
	clone.Lexicons.CitationPatterns = cloneStrings(c.Lexicons.CitationPatterns)
	clone.Lexicons.FeedbackTerms = cloneStrings(c.Lexicons.FeedbackTerms)
	clone.Lexicons.DataMarkers = cloneStrings(c.Lexicons.DataMarkers)
	clone.Lexicons.CodeMarkers = cloneStrings(c.Lexicons.CodeMarkers)
	clone.Lexicons.Stopwords = cloneStrings(c.Lexicons.Stopwords)
	clone.Lexicons.FoundationalMarkers = cloneStrings(c.Lexicons.FoundationalMarkers)
	clone.Lexicons.ExplanatoryMarkers = cloneStrings(c.Lexicons.ExplanatoryMarkers)
	if c.Lexicons.PatternDetectors != nil {
		clone.Lexicons.PatternDetectors = make([]schema.PatternDetector, len(c.Lexicons.PatternDetectors))
		copy(clone.Lexicons.PatternDetectors, c.Lexicons.PatternDetectors)
	}
	return &clone
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// PeriodStart returns the start of the reporting period ending at the
// given time.
func (c *Config) PeriodStart(end time.Time) time.Time {
	return end.Add(-c.Window)
}

// PlatformEnabled reports whether platform retrieval is configured.
func (c *Config) PlatformEnabled() bool {
	return c.PlatformRepo != ""
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client RevisionClient, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	if err := processWindows(cfg, input); err != nil {
		return err
	}
	if err := processScoring(cfg, input); err != nil {
		return err
	}
	if err := processPlatform(cfg, input); err != nil {
		return err
	}
	if err := resolveRepoAndDocs(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Refresh = input.Refresh

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 2. Store Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreConnect = input.StoreConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreConnect); err != nil {
		return err
	}

	// --- 3. History Cap Validation ---
	if input.HistoryCap < 1 {
		return fmt.Errorf("history-cap must be at least 1 (received %d)", input.HistoryCap)
	}
	cfg.HistoryCap = input.HistoryCap

	// --- 4. Excludes Processing ---
	defaults := []string{
		"node_modules/", "vendor/", ".git/",
		"dist/", "build/", "out/", "target/",
	}
	cfg.Excludes = defaults // Set defaults first

	if input.Exclude != "" {
		parts := strings.SplitSeq(input.Exclude, ",")
		for p := range parts {
			trimmedP := strings.TrimSpace(p)
			if trimmedP != "" {
				cfg.Excludes = append(cfg.Excludes, trimmedP)
			}
		}
	}

	return nil
}

// processThresholds validates the gating thresholds. Both live on the
// [0, 1] score scale and the publication gate is never looser than the
// per-run minimum.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	if input.Publication <= 0 || input.Publication > 1 {
		return fmt.Errorf("publication-threshold must be in (0.0, 1.0] (received %.2f)", input.Publication)
	}
	if input.Minimum <= 0 || input.Minimum > 1 {
		return fmt.Errorf("min-threshold must be in (0.0, 1.0] (received %.2f)", input.Minimum)
	}
	if input.Minimum > input.Publication {
		return fmt.Errorf("min-threshold (%.2f) cannot exceed publication-threshold (%.2f)", input.Minimum, input.Publication)
	}
	cfg.PublicationThreshold = input.Publication
	cfg.MinimumThreshold = input.Minimum
	return nil
}

// processWindows parses the trend window and the fetch cache TTL.
func processWindows(cfg *Config, input *ConfigRawInput) error {
	cfg.Window = schema.DefaultTrendWindow
	if input.Window != "" {
		window, err := ParseWindowDuration(input.Window)
		if err != nil {
			return fmt.Errorf("invalid window: %w", err)
		}
		cfg.Window = window
	}

	cfg.CacheTTL = schema.DefaultFetchCacheTTL
	if input.CacheTTL != "" {
		ttl, err := ParseWindowDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl: %w", err)
		}
		cfg.CacheTTL = ttl
	}

	return nil
}

// processScoring merges weight, stub factor and lexicon overrides over
// the built-in defaults and validates the result.
func processScoring(cfg *Config, input *ConfigRawInput) error {
	params := schema.DefaultScoringParams()

	// --- Component weights: merge pointers, then validate positivity ---
	overrides := map[schema.Component]*float64{
		schema.SignalComponent:   input.Weights.Signal,
		schema.FeedbackComponent: input.Weights.Feedback,
		schema.BoundedComponent:  input.Weights.Bounded,
		schema.ElasticComponent:  input.Weights.Elastic,
	}
	for component, value := range overrides {
		if value == nil {
			continue
		}
		if *value <= 0 {
			return fmt.Errorf("custom weight for component %s must be positive, got %.3f", component, *value)
		}
		params.ComponentWeights[component] = *value
	}

	// --- Stub factors: merge pointers, validate score range ---
	stubs := map[string]struct {
		raw *float64
		dst *float64
	}{
		"term-consistency":          {input.Stubs.TermConsistency, &params.StubFactors.TermConsistency},
		"method-boundary":           {input.Stubs.MethodBoundary, &params.StubFactors.MethodBoundary},
		"contradiction-integration": {input.Stubs.ContradictionIntegration, &params.StubFactors.ContradictionIntegration},
		"multi-perspective":         {input.Stubs.MultiPerspective, &params.StubFactors.MultiPerspective},
		"uncertainty-density":       {input.Stubs.UncertaintyDensity, &params.StubFactors.UncertaintyDensity},
		"limitation-acknowledgment": {input.Stubs.LimitationAcknowledgment, &params.StubFactors.LimitationAcknowledgment},
	}
	for name, stub := range stubs {
		if stub.raw == nil {
			continue
		}
		if *stub.raw < 0 || *stub.raw > 1 {
			return fmt.Errorf("stub factor %s must be between 0.0 and 1.0, got %.3f", name, *stub.raw)
		}
		*stub.dst = *stub.raw
	}

	// --- Lexicons: slice fields extend, sentinel markers replace ---
	lex := schema.DefaultLexicons()
	lex.AssertionVerbs = append(lex.AssertionVerbs, input.Lexicons.AssertionVerbs...)
	lex.CitationPatterns = append(lex.CitationPatterns, input.Lexicons.CitationPatterns...)
	lex.FeedbackTerms = append(lex.FeedbackTerms, input.Lexicons.FeedbackTerms...)
	lex.Stopwords = append(lex.Stopwords, input.Lexicons.Stopwords...)
	if input.Lexicons.ResidueStart != "" {
		lex.ResidueStart = input.Lexicons.ResidueStart
	}
	if input.Lexicons.ResidueEnd != "" {
		lex.ResidueEnd = input.Lexicons.ResidueEnd
	}
	if err := validateLexiconPatterns(&lex); err != nil {
		return err
	}

	cfg.Params = params
	cfg.Lexicons = lex
	return nil
}

// validateLexiconPatterns compiles every regex source once so a bad
// override fails at startup, not mid-run.
func validateLexiconPatterns(lex *schema.Lexicons) error {
	compile := func(kind, pattern string) error {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid %s pattern %q: %w", kind, pattern, err)
		}
		return nil
	}
	for _, p := range lex.CitationPatterns {
		if err := compile("citation", p); err != nil {
			return err
		}
	}
	for _, p := range lex.DataMarkers {
		if err := compile("data marker", p); err != nil {
			return err
		}
	}
	for _, p := range lex.CodeMarkers {
		if err := compile("code marker", p); err != nil {
			return err
		}
	}
	if err := compile("issue reference", lex.IssueRefPattern); err != nil {
		return err
	}
	for _, d := range lex.PatternDetectors {
		if err := compile("residue detector", d.Pattern); err != nil {
			return err
		}
	}
	return nil
}

// processPlatform validates the platform coordinates and resolves the
// access token from the environment.
func processPlatform(cfg *Config, input *ConfigRawInput) error {
	cfg.PlatformRepo = strings.TrimSpace(input.PlatformRepo)
	if cfg.PlatformRepo != "" {
		owner, name, ok := strings.Cut(cfg.PlatformRepo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("invalid platform-repo '%s'. must be owner/name", input.PlatformRepo)
		}
	}

	cfg.PlatformURL = strings.TrimRight(strings.TrimSpace(input.PlatformURL), "/")
	if cfg.PlatformURL == "" {
		cfg.PlatformURL = DefaultPlatformURL
	}

	cfg.TokenEnv = strings.TrimSpace(input.TokenEnv)
	if cfg.TokenEnv == "" {
		cfg.TokenEnv = DefaultTokenEnv
	}
	cfg.Token = os.Getenv(cfg.TokenEnv)

	return nil
}

// resolveRepoAndDocs resolves the repository root and anchors the docs
// and artifacts directories under it when they are given as relative
// paths.
func resolveRepoAndDocs(ctx context.Context, cfg *Config, client RevisionClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	gitContextPath := absSearchPath
	if statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot

	cfg.DocsDir = strings.TrimSpace(input.DocsDir)
	switch {
	case cfg.DocsDir == "":
		cfg.DocsDir = gitRoot
	case !filepath.IsAbs(cfg.DocsDir):
		cfg.DocsDir = filepath.Join(gitRoot, cfg.DocsDir)
	}

	cfg.ArtifactsDir = strings.TrimSpace(input.ArtifactsDir)
	switch {
	case cfg.ArtifactsDir == "":
		cfg.ArtifactsDir = filepath.Join(gitRoot, DefaultArtifactsDir)
	case !filepath.IsAbs(cfg.ArtifactsDir):
		cfg.ArtifactsDir = filepath.Join(gitRoot, cfg.ArtifactsDir)
	}

	return nil
}
