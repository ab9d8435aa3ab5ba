package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitecast/erector/internal/config"
	"github.com/sitecast/erector/internal/logbook"
	"github.com/sitecast/erector/internal/method/engine"
	"github.com/sitecast/erector/internal/report"
	"github.com/sitecast/erector/internal/snapshot"
	"gopkg.in/yaml.v3"
)

func main() {
	modelPath := flag.String("model", "", "path to a model snapshot JSON file")
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	mode := flag.String("mode", "document", "what to produce: analyze, document or sequence")
	sequencesPath := flag.String("sequences", "", "sequence plan YAML (path, or name under .erector/sequences)")
	outPath := flag.String("out", "", "report output path (defaults under .erector/reports)")
	flag.Parse()

	if strings.TrimSpace(*modelPath) == "" {
		die("--model is required")
	}

	project := *projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		die("resolve project dir: %v", err)
	}
	if err := config.InitErectorDir(absoluteProject); err != nil {
		die("init .erector: %v", err)
	}
	cfg, err := config.NewConfig(absoluteProject)
	if err != nil {
		die("load config: %v", err)
	}

	input, err := snapshot.LoadModel(*modelPath)
	if err != nil {
		die("load model: %v", err)
	}
	eng, err := engine.New(input,
		engine.WithParams(cfg.EngineParams()),
		engine.WithDocumentTitle(cfg.DocumentTitle()),
	)
	if err != nil {
		die("prepare engine: %v", err)
	}

	summary := eng.Analyze()
	modelID := eng.ModelID()
	if modelID == "" {
		modelID = strings.TrimSuffix(filepath.Base(*modelPath), filepath.Ext(*modelPath))
	}
	lb, lbErr := logbook.New(cfg.LogPath())
	if lbErr != nil {
		lb = nil
	}
	log := lb.Model(modelID)

	switch strings.TrimSpace(*mode) {
	case "analyze":
		printSummary(summary)
		log.Info("headless analysis: %d zones, %d stages", summary.ZoneCount, summary.StageCount)

	case "document":
		printSummary(summary)
		reportPath := writeOutputs(cfg, eng, modelID, *outPath)
		fmt.Printf("Methodology written to %s\n", reportPath)
		log.Info("headless document export to %s", reportPath)

	case "sequence":
		if strings.TrimSpace(*sequencesPath) == "" {
			die("--sequences is required in sequence mode")
		}
		plan, err := loadSequencePlan(cfg, *sequencesPath)
		if err != nil {
			die("load sequence plan: %v", err)
		}
		stages, err := eng.GenerateFromSequences(plan, cfg.IncludeFootings())
		if err != nil {
			die("generate sequences: %v", err)
		}
		fmt.Printf("Generated %d stages across %d zones:\n", len(stages), len(eng.Zones()))
		for _, s := range stages {
			fmt.Printf("  %s  %s\n", s.ID, s.Name)
		}
		reportPath := writeOutputs(cfg, eng, modelID, *outPath)
		fmt.Printf("Methodology written to %s\n", reportPath)
		log.Info("headless sequence plan applied: %d stages", len(stages))

	default:
		die("unknown mode %q (expected analyze, document or sequence)", *mode)
	}
}

func printSummary(s engine.Summary) {
	gridKind := "virtual"
	if s.GridDetected {
		gridKind = "detected"
	}
	fmt.Printf("Model analyzed: %d structural elements (%d records dropped)\n", s.TotalElements, s.DroppedRecords)
	fmt.Printf("Grid: %s, %d axes, %d cells\n", gridKind, s.GridAxesCount, s.GridCellsCount)
	fmt.Printf("Levels: %s\n", strings.Join(s.Levels, ", "))
	fmt.Printf("Zones: %d, Stages: %d\n", s.ZoneCount, s.StageCount)
}

// writeOutputs renders the methodology report and saves the companion
// state snapshot, returning the report path.
func writeOutputs(cfg *config.Config, eng *engine.Engine, modelID, override string) string {
	doc := eng.Document()
	reportPath := strings.TrimSpace(override)
	if reportPath == "" {
		reportPath = cfg.ReportPath(modelID)
	}
	if err := report.Write(reportPath, doc); err != nil {
		die("write report: %v", err)
	}
	if err := snapshot.SaveState(cfg.StatePath(modelID), snapshot.StateOf(eng, doc.GeneratedAt)); err != nil {
		die("write state snapshot: %v", err)
	}
	return reportPath
}

type sequencePlan struct {
	Sequences []engine.SequenceRequest `yaml:"sequences"`
}

// loadSequencePlan reads a sequence plan file. Bare names without a
// matching file are also tried under the project's sequences directory,
// with .yaml appended when no extension is given.
func loadSequencePlan(cfg *config.Config, path string) ([]engine.SequenceRequest, error) {
	resolved := path
	if _, err := os.Stat(resolved); err != nil {
		candidate := filepath.Join(cfg.SequencesDir(), path)
		if filepath.Ext(candidate) == "" {
			candidate += ".yaml"
		}
		if _, err := os.Stat(candidate); err == nil {
			resolved = candidate
		}
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("open sequence plan %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, expected a file", resolved)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read sequence plan %s: %w", resolved, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("sequence plan %s is empty", resolved)
	}
	var plan sequencePlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse sequence plan %s: %w", resolved, err)
	}
	if len(plan.Sequences) == 0 {
		return nil, fmt.Errorf("sequence plan %s declares no sequences", resolved)
	}
	return plan.Sequences, nil
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
