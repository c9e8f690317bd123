package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cscript/internal/buildpipeline"
	"cscript/internal/config"
	"cscript/internal/diag"
	"cscript/internal/directive"
	"cscript/internal/exhaustive"
	"cscript/internal/lowering"
	"cscript/internal/observ"
	"cscript/internal/source"
)

// errDiagnostics сигнализирует, что сборка остановлена из-за диагностик;
// сами диагностики лежат в unitResult.Bag.
var errDiagnostics = errors.New("diagnostics reported")

// unitOptions настраивает сборку одного файла. seed применяется к конфигу до
// директив (манифест), overrides — после (CLI-флаги перекрывают директивы).
type unitOptions struct {
	seed           func(*config.Config)
	overrides      func(*config.Config)
	maxDiagnostics int
	profileTimeout time.Duration
	keepTmp        bool
	printCommands  bool
	toolchain      buildpipeline.Toolchain
	progress       buildpipeline.ProgressSink
}

// unitResult — всё, что драйвер показывает после сборки одного юнита.
type unitResult struct {
	Path  string
	Bag   *diag.Bag
	Files *source.FileSet
	Timer *observ.Timer
	Cfg   config.Config
	Build buildpipeline.BuildResult
}

// buildUnit ведёт один файл через полный конвейер: загрузка, извлечение
// директив, lowering, анализ исчерпываемости и оркестрация сборки. Каждый
// юнит получает собственные FileSet и Bag, поэтому юниты независимы и могут
// собираться параллельно.
func buildUnit(ctx context.Context, path string, opts unitOptions) (*unitResult, error) {
	fset := source.NewFileSet()
	bag := diag.NewBag(opts.maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	timer := observ.NewTimer()

	res := &unitResult{Path: path, Bag: bag, Files: fset, Timer: timer}

	emit(opts.progress, path, buildpipeline.StageExtract, buildpipeline.StatusWorking, nil, 0)
	phase := timer.Begin("extract")
	phaseStart := time.Now()
	fileID, err := fset.Load(path)
	if err != nil {
		// виртуальная заглушка, чтобы диагностика разрешалась в путь файла
		placeholder := fset.AddVirtual(path, nil)
		diag.ReportError(reporter, diag.IOLoadFileError, source.Span{File: placeholder}, err.Error())
		emit(opts.progress, path, buildpipeline.StageExtract, buildpipeline.StatusError, err, time.Since(phaseStart))
		return res, errDiagnostics
	}

	cfg := config.Default()
	if opts.seed != nil {
		opts.seed(&cfg)
	}
	residual := directive.Extract(fset.Get(fileID), &cfg, reporter)
	if opts.overrides != nil {
		opts.overrides(&cfg)
	}
	res.Cfg = cfg
	timer.End(phase, "")
	emit(opts.progress, path, buildpipeline.StageExtract, buildpipeline.StatusDone, nil, time.Since(phaseStart))

	// Lowering здесь нужен анализатору; оркестратор повторит его сам
	// (проход идемпотентен и дёшев).
	emit(opts.progress, path, buildpipeline.StageAnalyze, buildpipeline.StatusWorking, nil, 0)
	phase = timer.Begin("analyze")
	phaseStart = time.Now()
	low := lowering.Lower(fileID, residual, lowering.Options{Softline: cfg.Softline}, reporter)
	lowID := fset.AddVirtual(path+".c", low.Text)
	exhaustive.Analyze(lowID, low.Text, low.Enums, reporter)
	timer.End(phase, fmt.Sprintf("%d enums, %d fns", len(low.Enums), len(low.Fns)))

	if bag.HasErrors() {
		emit(opts.progress, path, buildpipeline.StageAnalyze, buildpipeline.StatusError, errDiagnostics, time.Since(phaseStart))
		return res, errDiagnostics
	}
	emit(opts.progress, path, buildpipeline.StageAnalyze, buildpipeline.StatusDone, nil, time.Since(phaseStart))

	phase = timer.Begin("build")
	buildRes, err := buildpipeline.Build(ctx, &buildpipeline.BuildRequest{
		FileID:         fileID,
		Path:           path,
		Residual:       residual,
		Cfg:            cfg,
		Toolchain:      opts.toolchain,
		Progress:       opts.progress,
		Reporter:       reporter,
		ProfileTimeout: opts.profileTimeout,
		KeepTmp:        opts.keepTmp,
		PrintCommands:  opts.printCommands,
	})
	timer.End(phase, string(buildRes.State))
	res.Build = buildRes
	if err != nil {
		return res, err
	}
	return res, nil
}

func emit(sink buildpipeline.ProgressSink, path string, stage buildpipeline.Stage, status buildpipeline.Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(buildpipeline.Event{File: path, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

// animRequested дёшево проверяет, просит ли хотя бы один файл @anim on.
// Ошибки чтения здесь игнорируются: они всплывут в самой сборке.
func animRequested(paths []string) bool {
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fset := source.NewFileSet()
		id := fset.AddVirtual(path, content)
		cfg := config.Default()
		directive.Extract(fset.Get(id), &cfg, diag.NopReporter{})
		if cfg.Anim {
			return true
		}
	}
	return false
}
