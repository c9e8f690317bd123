// Package buildpipeline orchestrates the one- or two-pass build of a lowered
// translation unit: instrumented compile + single profiled run when profiling
// is requested, then the final compile, always converging to exactly one
// artifact with no leaked intermediates.
package buildpipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cscript/internal/config"
	"cscript/internal/diag"
	"cscript/internal/lowering"
	"cscript/internal/prelude"
	"cscript/internal/source"
)

// DefaultProfileTimeout bounds the instrumented run: it executes arbitrary
// generated code and must not hang the build.
const DefaultProfileTimeout = 30 * time.Second

// BuildRequest configures one orchestration call.
type BuildRequest struct {
	FileID   source.FileID
	Path     string // исходный путь, только для событий прогресса
	Residual []byte
	Cfg      config.Config

	Toolchain      Toolchain // nil — системный компилятор
	Progress       ProgressSink
	Reporter       diag.Reporter
	ProfileTimeout time.Duration
	TmpDir         string // пустой — os.TempDir()
	KeepTmp        bool
	PrintCommands  bool
}

// BuildResult captures the artifact and what the state machine went through.
type BuildResult struct {
	OutputPath string
	State      State
	Profiled   bool
	Hot        []string
	Timings    Timings
}

// Build ведёт автомат Idle → Lowered → [ProfilingBuilt → ProfilingRun] →
// FinalBuilt → Done; Failed достижим из любого состояния. Все временные файлы
// снимаются на каждом пути выхода, успешном и нет.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	result := BuildResult{State: StateIdle}
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	reqCopy := *req
	req = &reqCopy

	if req.Toolchain == nil {
		req.Toolchain = SystemToolchain{CC: PickCC(req.Cfg.CCPrefer), PrintCommands: req.PrintCommands}
	}
	if req.ProfileTimeout <= 0 {
		req.ProfileTimeout = DefaultProfileTimeout
	}
	if req.TmpDir == "" {
		req.TmpDir = os.TempDir()
	}
	if req.Cfg.Out == "" {
		req.Cfg.Out = "a.out"
	}
	result.OutputPath = req.Cfg.Out

	jan := newJanitor(req.KeepTmp)
	defer jan.cleanup()

	head := prelude.Compose(req.Cfg)

	// финальное опускание: без инструментирования, горячий набор подставим
	// после профилировочного прохода
	lowerStart := time.Now()
	emitStage(req.Progress, req.Path, StageLower, StatusWorking, nil, 0)
	final := lowering.Lower(req.FileID, req.Residual, lowering.Options{
		Softline: req.Cfg.Softline,
	}, req.Reporter)
	result.Timings.Set(StageLower, time.Since(lowerStart))
	emitStage(req.Progress, req.Path, StageLower, StatusDone, nil, result.Timings.Duration(StageLower))
	result.State = StateLowered

	profiled := shouldProfile(req.Cfg, final)
	var hot []string
	if profiled {
		var err error
		hot, err = profilePass(ctx, req, jan, head, &result)
		if err != nil {
			var berr *BuildError
			timedOut := errors.As(err, &berr) &&
				berr.Kind == ErrKindProfilingRun &&
				errors.Is(err, context.DeadlineExceeded)
			if !timedOut {
				result.State = StateFailed
				return result, err
			}
			// таймаут прогона: собираем финальный артефакт без профиля,
			// а не валим сборку; обычный ненулевой выход остаётся фатальным
			diag.ReportWarning(req.Reporter, diag.BuildProfilingRun,
				source.Span{File: req.FileID},
				fmt.Sprintf("instrumented run timed out, building without a profile: %v", berr.Err))
			profiled = false
			hot = nil
		} else {
			result.State = StateProfilingRun
		}
	}
	result.Profiled = profiled
	result.Hot = hot

	if len(hot) > 0 {
		hotSet := make(map[string]bool, len(hot))
		for _, name := range hot {
			hotSet[name] = true
		}
		final = lowering.Lower(req.FileID, req.Residual, lowering.Options{
			Softline: req.Cfg.Softline,
			Hot:      hotSet,
		}, diag.NopReporter{})
	}

	buildStart := time.Now()
	emitStage(req.Progress, req.Path, StageBuild, StatusWorking, nil, 0)

	cPath, err := writeTemp(req.TmpDir, ".c", head+"\n"+string(final.Text))
	if err != nil {
		result.State = StateFailed
		emitStage(req.Progress, req.Path, StageBuild, StatusError, err, 0)
		return result, err
	}
	jan.add(cPath)

	// компилируем во временный файл и публикуем переименованием: по пути
	// вывода либо прежний артефакт, либо целиком новый
	tmpOut := tempName(req.TmpDir, ".exe")
	jan.add(tmpOut)
	if err := req.Toolchain.Compile(ctx, CompileSpec{
		SourcePath: cPath,
		OutputPath: tmpOut,
		Cfg:        req.Cfg,
	}); err != nil {
		result.State = StateFailed
		berr := newBuildError(ErrKindFinalBuild, err)
		emitStage(req.Progress, req.Path, StageBuild, StatusError, berr, 0)
		return result, berr
	}
	result.State = StateFinalBuilt

	if err := publish(tmpOut, req.Cfg.Out); err != nil {
		result.State = StateFailed
		berr := newBuildError(ErrKindFinalBuild, err)
		emitStage(req.Progress, req.Path, StageBuild, StatusError, berr, 0)
		return result, berr
	}
	result.Timings.Set(StageBuild, time.Since(buildStart))
	emitStage(req.Progress, req.Path, StageBuild, StatusDone, nil, result.Timings.Duration(StageBuild))

	result.State = StateDone
	return result, nil
}

// shouldProfile: on — всегда, off — никогда, auto — если единица определяет
// хотя бы одну softline-функцию и уровень оптимизации не ниже O2.
func shouldProfile(cfg config.Config, final lowering.Result) bool {
	switch cfg.Profile {
	case config.ProfileOn:
		return true
	case config.ProfileAuto:
		if len(final.Fns) == 0 {
			return false
		}
		switch cfg.Opt {
		case config.OptO2, config.OptO3, config.OptMax:
			return true
		}
		return false
	default:
		return false
	}
}

// profilePass выполняет инструментированную часть автомата и возвращает
// горячий набор. Возвращаемые ошибки всегда *BuildError.
func profilePass(ctx context.Context, req *BuildRequest, jan *janitor, head string, result *BuildResult) ([]string, error) {
	inst := lowering.Lower(req.FileID, req.Residual, lowering.Options{
		Softline:   req.Cfg.Softline,
		Instrument: true,
	}, diag.NopReporter{})

	pbStart := time.Now()
	emitStage(req.Progress, req.Path, StageProfileBuild, StatusWorking, nil, 0)

	cPath, err := writeTemp(req.TmpDir, ".c", head+"\n"+string(inst.Text))
	if err != nil {
		emitStage(req.Progress, req.Path, StageProfileBuild, StatusError, err, 0)
		return nil, newBuildError(ErrKindProfilingBuild, err)
	}
	jan.add(cPath)

	exePath := tempName(req.TmpDir, ".exe")
	jan.add(exePath)
	if err := req.Toolchain.Compile(ctx, CompileSpec{
		SourcePath:   cPath,
		OutputPath:   exePath,
		Cfg:          req.Cfg,
		Instrumented: true,
	}); err != nil {
		berr := newBuildError(ErrKindProfilingBuild, err)
		emitStage(req.Progress, req.Path, StageProfileBuild, StatusError, berr, 0)
		return nil, berr
	}
	result.State = StateProfilingBuilt
	result.Timings.Set(StageProfileBuild, time.Since(pbStart))
	emitStage(req.Progress, req.Path, StageProfileBuild, StatusDone, nil, time.Since(pbStart))

	prStart := time.Now()
	emitStage(req.Progress, req.Path, StageProfileRun, StatusWorking, nil, 0)

	profPath := tempName(req.TmpDir, ".profile")
	jan.add(profPath)

	runCtx, cancel := context.WithTimeout(ctx, req.ProfileTimeout)
	defer cancel()
	if err := req.Toolchain.Run(runCtx, RunSpec{
		ExePath: exePath,
		Env:     []string{"CS_PROFILE_OUT=" + profPath},
	}); err != nil {
		berr := newBuildError(ErrKindProfilingRun, err)
		emitStage(req.Progress, req.Path, StageProfileRun, StatusError, berr, 0)
		return nil, berr
	}

	data, err := os.ReadFile(profPath) // #nosec G304 -- temp path is ours
	if err != nil {
		berr := newBuildError(ErrKindProfilingRun, err)
		emitStage(req.Progress, req.Path, StageProfileRun, StatusError, berr, 0)
		return nil, berr
	}
	result.Timings.Set(StageProfileRun, time.Since(prStart))
	emitStage(req.Progress, req.Path, StageProfileRun, StatusDone, nil, time.Since(prStart))

	return SelectHot(ParseProfile(data), HotLimit), nil
}

// janitor copит временные пути и снимает их при выходе из Build.
type janitor struct {
	paths []string
	keep  bool
}

func newJanitor(keep bool) *janitor {
	return &janitor{keep: keep}
}

func (j *janitor) add(path string) {
	j.paths = append(j.paths, path)
}

func (j *janitor) cleanup() {
	if j.keep {
		return
	}
	for _, p := range j.paths {
		// файла может уже не быть (публикация переименованием)
		_ = os.Remove(p)
	}
}

// tempName возвращает уникальное имя: PID плюс случайный токен, чтобы
// параллельные сборки на одном хосте не сталкивались.
func tempName(dir, suffix string) string {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// крайне маловероятно; PID и время всё ещё дают уникальность
		return filepath.Join(dir, fmt.Sprintf("cscript_%d_%d%s", os.Getpid(), time.Now().UnixNano(), suffix))
	}
	return filepath.Join(dir, fmt.Sprintf("cscript_%d_%s%s", os.Getpid(), hex.EncodeToString(buf[:]), suffix))
}

func writeTemp(dir, suffix, content string) (string, error) {
	path := tempName(dir, suffix)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write temp source: %w", err)
	}
	return path, nil
}

// publish атомарно подставляет готовый артефакт на место вывода; при
// rename через границу файловых систем падает на копирование.
func publish(tmpPath, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	// #nosec G302 -- the artifact must be executable by the current user
	if err := os.Chmod(tmpPath, 0o700); err != nil {
		return fmt.Errorf("failed to mark artifact executable: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err == nil {
		return nil
	}
	src, err := os.Open(tmpPath) // #nosec G304 -- temp path is ours
	if err != nil {
		return fmt.Errorf("failed to publish artifact: %w", err)
	}
	defer func() { _ = src.Close() }()
	// #nosec G302 G304 -- see above
	dst, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o700)
	if err != nil {
		return fmt.Errorf("failed to publish artifact: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to publish artifact: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to publish artifact: %w", err)
	}
	return os.Remove(tmpPath)
}

func emitStage(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
