package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"cscript/internal/config"
)

// CompileSpec describes one external-toolchain invocation.
type CompileSpec struct {
	SourcePath string
	OutputPath string
	Cfg        config.Config
	// Instrumented включает профилировщик прелюдии (-DCS_PROFILE_BUILD=1).
	Instrumented bool
}

// RunSpec describes one run of a built executable.
type RunSpec struct {
	ExePath string
	// Env — дополнительные переменные окружения в форме KEY=VALUE.
	Env []string
}

// Toolchain — внешний C-компилятор и запуск инструментированного артефакта.
// Интерфейс позволяет подменять системный тулчейн в тестах.
type Toolchain interface {
	Compile(ctx context.Context, spec CompileSpec) error
	Run(ctx context.Context, spec RunSpec) error
}

// SystemToolchain invokes the host C compiler via exec.
type SystemToolchain struct {
	// CC — имя бинаря компилятора; пустое значение выбирается через PickCC.
	CC            string
	PrintCommands bool
}

// PickCC возвращает первый доступный компилятор: prefer, затем clang, gcc, cc.
func PickCC(prefer string) string {
	cands := []string{"clang", "gcc", "cc"}
	if prefer != "" {
		cands = append([]string{prefer}, cands...)
	}
	for _, c := range cands {
		if _, err := exec.LookPath(c); err == nil {
			return c
		}
	}
	return "clang"
}

func (t SystemToolchain) cc() string {
	if t.CC != "" {
		return t.CC
	}
	return PickCC("")
}

// Compile собирает argv по конфигурации и ждёт завершения компилятора.
func (t SystemToolchain) Compile(ctx context.Context, spec CompileSpec) error {
	return runCommand(ctx, t.PrintCommands, t.cc(), Argv(spec)...)
}

// Run запускает артефакт ровно один раз; отмена контекста убивает процесс.
func (t SystemToolchain) Run(ctx context.Context, spec RunSpec) error {
	// #nosec G204 -- the executable was produced by this build
	cmd := exec.CommandContext(ctx, spec.ExePath)
	cmd.Env = append(os.Environ(), spec.Env...)
	cmd.Stdout = os.Stdout
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("instrumented run timed out: %w", ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return err
		}
		return fmt.Errorf("%s: %s", spec.ExePath, msg)
	}
	return nil
}

// Argv строит аргументы компилятора для spec (без имени самого компилятора).
func Argv(spec CompileSpec) []string {
	cfg := spec.Cfg
	args := []string{"-std=c11"}

	switch cfg.Opt {
	case config.OptO0:
		args = append(args, "-O0")
	case config.OptO1:
		args = append(args, "-O1")
	case config.OptO2:
		args = append(args, "-O2")
	case config.OptO3:
		args = append(args, "-O3")
	case config.OptSize:
		args = append(args, "-Os")
	case config.OptMax:
		args = append(args, "-O3")
	}
	if cfg.Hardline {
		args = append(args, "-Wall", "-Wextra", "-Werror", "-Wconversion", "-Wsign-conversion")
	}
	if cfg.LTO {
		args = append(args, "-flto")
	}
	if cfg.Hardline {
		args = append(args, "-DCS_HARDLINE=1")
	}
	if spec.Instrumented {
		args = append(args, "-DCS_PROFILE_BUILD=1")
	}
	for _, d := range cfg.Defines {
		args = append(args, "-D"+d)
	}
	for _, p := range cfg.Incs {
		args = append(args, "-I"+p)
	}
	args = append(args, spec.SourcePath, "-o", spec.OutputPath)
	for _, lp := range cfg.LibPaths {
		args = append(args, "-L"+lp)
	}
	for _, l := range cfg.Links {
		args = append(args, "-l"+l)
	}
	return args
}

func runCommand(ctx context.Context, printCommands bool, name string, args ...string) error {
	if printCommands {
		_, printErr := fmt.Fprintf(os.Stdout, "%s %s\n", name, strings.Join(args, " "))
		if printErr != nil {
			return fmt.Errorf("failed to print command: %w", printErr)
		}
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return err
		}
		return fmt.Errorf("%s: %s", name, msg)
	}
	return nil
}
