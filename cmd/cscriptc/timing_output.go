package main

import (
	"fmt"
	"io"
	"time"

	"cscript/internal/buildpipeline"
)

// printStageTimings печатает длительности стадий оркестратора в стиле
// "stage X.X ms"; молчит, если стадия не выполнялась.
func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	if timings.Has(buildpipeline.StageLower) {
		fmt.Fprintf(out, "lowered %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageLower)))
	}
	if timings.Has(buildpipeline.StageProfileBuild) || timings.Has(buildpipeline.StageProfileRun) {
		profiled := timings.Sum(buildpipeline.StageProfileBuild, buildpipeline.StageProfileRun)
		fmt.Fprintf(out, "profiled %.1f ms\n", toMillis(profiled))
	}
	if timings.Has(buildpipeline.StageBuild) {
		fmt.Fprintf(out, "compiled %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageBuild)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
