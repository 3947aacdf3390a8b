package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/davidkimai/recursive-distill/core/ingest"
	"github.com/davidkimai/recursive-distill/internal/artifact"
	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/internal/docs"
	"github.com/davidkimai/recursive-distill/internal/outwriter"
	"github.com/davidkimai/recursive-distill/schema"
)

// ErrNoReport is returned when a command needs a stored coherence
// report and none exists yet.
var ErrNoReport = errors.New("no coherence report found; run 'distill run' or 'distill score' first")

// RunResult bundles everything a full engine run produces.
type RunResult struct {
	Report        *schema.CoherenceReport
	Graph         *schema.AttributionGraph
	Catalog       *schema.ResidueCatalog
	Period        *schema.PeriodReport
	Check         *schema.CheckResult
	MinimumPassed bool
	NewResidue    int
}

// ExecuteRun performs the full pipeline: ingest, score, fold the
// attribution graph, classify residue, build the period report and gate
// against the per-run minimum and the publication threshold. Every
// stage persists its artifact
// before the next stage runs; a failure before scoring leaves all
// artifacts untouched. The run is tracked in the ledger when a backend
// is configured.
func ExecuteRun(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient, stores contract.StoreManager) error {
	runID := uuid.NewString()
	start := time.Now().UTC()

	ledger := stores.GetLedgerStore()
	if err := ledger.BeginRun(runID, cfg.RepoPath, start); err != nil {
		contract.LogWarn("Cannot record run start", err)
	}

	result, err := runEngine(ctx, cfg, revisions, platform, start)
	if err != nil {
		if endErr := ledger.EndRun(runID, time.Now().UTC(), schema.FailedStatus, nil, false, false); endErr != nil {
			contract.LogWarn("Cannot record run failure", endErr)
		}
		return err
	}
	if err := ledger.EndRun(runID, time.Now().UTC(), schema.CompletedStatus, result.Report, result.Check.Passed, result.MinimumPassed); err != nil {
		contract.LogWarn("Cannot record run completion", err)
	}

	if err := outwriter.WriteReport(cfg, result.Report); err != nil {
		return err
	}
	if cfg.Output == schema.TextOut {
		printRunSummary(cfg, result)
	}
	return nil
}

// runEngine computes and persists every artifact of one run.
func runEngine(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient, now time.Time) (*RunResult, error) {
	documents, activity, err := collectInputs(ctx, cfg, revisions, platform)
	if err != nil {
		return nil, err
	}

	report := NewScorer(cfg).Score(documents, activity, now)

	store := artifact.NewStore(cfg)
	if err := store.SaveReport(*report); err != nil {
		return nil, fmt.Errorf("failed to save coherence report: %w", err)
	}
	if err := store.AppendHistory(*report); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}

	graph, err := store.LoadGraph()
	if err != nil {
		return nil, err
	}
	FoldEvents(&graph, activity.Events)
	if err := store.SaveGraph(graph); err != nil {
		return nil, fmt.Errorf("failed to save attribution graph: %w", err)
	}

	catalog, err := store.LoadResidue()
	if err != nil {
		return nil, err
	}
	added := MergeCatalog(&catalog, NewClassifier(cfg).Scan(documents, activity, now))
	if err := store.SaveResidue(catalog); err != nil {
		return nil, fmt.Errorf("failed to save residue catalog: %w", err)
	}

	history, err := store.LoadHistory()
	if err != nil {
		return nil, err
	}
	period := BuildPeriodReport(cfg, &history, report, &graph, &catalog, activity, now)
	if err := store.SavePeriodReport(*period); err != nil {
		return nil, fmt.Errorf("failed to save period report: %w", err)
	}

	return &RunResult{
		Report:        report,
		Graph:         &graph,
		Catalog:       &catalog,
		Period:        period,
		Check:         EvaluateCheck(report, cfg.PublicationThreshold),
		MinimumPassed: MeetsMinimum(report, cfg.MinimumThreshold),
		NewResidue:    added,
	}, nil
}

// ExecuteScore recomputes the coherence report only, replacing the
// snapshot artifact and appending to history.
func ExecuteScore(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient) error {
	report, err := ComputeReport(ctx, cfg, revisions, platform, time.Now().UTC())
	if err != nil {
		return err
	}
	store := artifact.NewStore(cfg)
	if err := store.SaveReport(*report); err != nil {
		return fmt.Errorf("failed to save coherence report: %w", err)
	}
	if err := store.AppendHistory(*report); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return outwriter.WriteReport(cfg, report)
}

// ComputeReport scores the repository without touching any artifact.
func ComputeReport(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient, now time.Time) (*schema.CoherenceReport, error) {
	documents, activity, err := collectInputs(ctx, cfg, revisions, platform)
	if err != nil {
		return nil, err
	}
	return NewScorer(cfg).Score(documents, activity, now), nil
}

// ExecuteGraph folds the current activity into the persisted
// attribution graph and prints its stats.
func ExecuteGraph(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient) error {
	graph, err := ComputeGraph(ctx, cfg, revisions, platform)
	if err != nil {
		return err
	}
	return outwriter.WriteGraph(cfg, graph)
}

// ComputeGraph folds current activity into the stored graph and
// persists the result.
func ComputeGraph(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient) (*schema.AttributionGraph, error) {
	activity, err := ingest.Collect(ctx, cfg, revisions, platform)
	if err != nil {
		return nil, err
	}
	store := artifact.NewStore(cfg)
	graph, err := store.LoadGraph()
	if err != nil {
		return nil, err
	}
	FoldEvents(&graph, activity.Events)
	if err := store.SaveGraph(graph); err != nil {
		return nil, fmt.Errorf("failed to save attribution graph: %w", err)
	}
	return &graph, nil
}

// ExecuteResidue classifies residue across documents and discussions,
// merges new instances into the catalog and prints it.
func ExecuteResidue(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient) error {
	catalog, added, err := ComputeResidue(ctx, cfg, revisions, platform, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := outwriter.WriteResidue(cfg, catalog); err != nil {
		return err
	}
	if cfg.Output == schema.TextOut {
		fmt.Printf("\n%d new instance(s) cataloged this scan.\n", added)
	}
	return nil
}

// ComputeResidue scans for residue and merges it into the persisted
// catalog, returning the catalog and the count of new instances.
func ComputeResidue(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient, now time.Time) (*schema.ResidueCatalog, int, error) {
	documents, activity, err := collectInputs(ctx, cfg, revisions, platform)
	if err != nil {
		return nil, 0, err
	}
	store := artifact.NewStore(cfg)
	catalog, err := store.LoadResidue()
	if err != nil {
		return nil, 0, err
	}
	added := MergeCatalog(&catalog, NewClassifier(cfg).Scan(documents, activity, now))
	if err := store.SaveResidue(catalog); err != nil {
		return nil, 0, fmt.Errorf("failed to save residue catalog: %w", err)
	}
	return &catalog, added, nil
}

// ExecuteResidueResolve marks one cataloged instance resolved. This is
// the reviewer action; scans never change an instance status.
func ExecuteResidueResolve(cfg *contract.Config, id string) error {
	store := artifact.NewStore(cfg)
	catalog, err := store.LoadResidue()
	if err != nil {
		return err
	}
	if err := ResolveInstance(&catalog, id); err != nil {
		return err
	}
	if err := store.SaveResidue(catalog); err != nil {
		return fmt.Errorf("failed to save residue catalog: %w", err)
	}
	fmt.Printf("Residue instance %s marked resolved.\n", id)
	return nil
}

// ExecuteTrends rebuilds the period report from the persisted artifacts
// plus fresh activity and prints it.
func ExecuteTrends(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient) error {
	period, err := ComputeTrends(ctx, cfg, revisions, platform, time.Now().UTC())
	if err != nil {
		return err
	}
	return outwriter.WriteTrends(cfg, period)
}

// ComputeTrends builds and persists the period report for the window
// ending at now. It requires a stored coherence report.
func ComputeTrends(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient, now time.Time) (*schema.PeriodReport, error) {
	store := artifact.NewStore(cfg)
	report, ok, err := store.LoadReport()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoReport
	}
	activity, err := ingest.Collect(ctx, cfg, revisions, platform)
	if err != nil {
		return nil, err
	}
	history, err := store.LoadHistory()
	if err != nil {
		return nil, err
	}
	graph, err := store.LoadGraph()
	if err != nil {
		return nil, err
	}
	catalog, err := store.LoadResidue()
	if err != nil {
		return nil, err
	}
	period := BuildPeriodReport(cfg, &history, &report, &graph, &catalog, activity, now)
	if err := store.SavePeriodReport(*period); err != nil {
		return nil, fmt.Errorf("failed to save period report: %w", err)
	}
	return period, nil
}

// ExecuteCheck gates the latest stored report and prints the verdict.
// The returned result lets the caller set the process exit code.
func ExecuteCheck(cfg *contract.Config) (*schema.CheckResult, error) {
	result, err := ComputeCheck(cfg)
	if err != nil {
		return nil, err
	}
	if err := outwriter.WriteCheck(cfg, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ComputeCheck evaluates the stored report against the publication
// threshold without printing.
func ComputeCheck(cfg *contract.Config) (*schema.CheckResult, error) {
	store := artifact.NewStore(cfg)
	report, ok, err := store.LoadReport()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoReport
	}
	return EvaluateCheck(&report, cfg.PublicationThreshold), nil
}

// collectInputs loads the documents and gathers run activity. Both are
// fatal input conditions: no artifact is written when either fails.
func collectInputs(ctx context.Context, cfg *contract.Config, revisions contract.RevisionClient, platform contract.PlatformClient) ([]schema.Document, *ingest.Activity, error) {
	documents, err := docs.NewLoader(cfg).Load()
	if err != nil {
		return nil, nil, err
	}
	activity, err := ingest.Collect(ctx, cfg, revisions, platform)
	if err != nil {
		return nil, nil, err
	}
	return documents, activity, nil
}

// printRunSummary prints the post-report rollup of a full run: graph
// growth, new residue and the gate verdicts.
func printRunSummary(cfg *contract.Config, result *RunResult) {
	fmt.Println()
	fmt.Printf("Attribution graph: %d nodes, %d links (density %.*f)\n",
		len(result.Graph.Nodes), len(result.Graph.Links), cfg.Precision, result.Graph.Metrics.Density)
	fmt.Printf("Residue catalog: %d total, %d new this run\n",
		result.Catalog.Aggregates.Total, result.NewResidue)

	minVerdict := contract.PassColor.Sprint("PASS")
	if !result.MinimumPassed {
		minVerdict = contract.FailColor.Sprint("FAIL")
	}
	fmt.Printf("Run minimum: %s (overall %.*f, minimum %.*f)\n",
		minVerdict, cfg.Precision, result.Check.OverallScore, cfg.Precision, cfg.MinimumThreshold)

	verdict := contract.PassColor.Sprint("PASS")
	if !result.Check.Passed {
		verdict = contract.FailColor.Sprint("FAIL")
	}
	fmt.Printf("Publication gate: %s (overall %.*f, threshold %.*f)\n",
		verdict, cfg.Precision, result.Check.OverallScore, cfg.Precision, result.Check.Threshold)
}
