package main

import (
	"github.com/user/chromakey/pkg/orchestrator"
	"github.com/user/chromakey/pkg/summarizer"
)

// summaryFromResult collects what the run reported, including runs that failed part way.
func summaryFromResult(result orchestrator.RunResult, cfg orchestrator.Config) *summarizer.Summary {
	planes := make([]summarizer.PlaneInfo, 0, len(result.Planes))
	for _, p := range result.Planes {
		planes = append(planes, summarizer.PlaneInfo{
			Index:  p.Index,
			Stride: p.Stride,
			Rows:   p.Rows,
			Bytes:  p.Bytes,
		})
	}

	return summarizer.NewBuilder().
		WithOutcome(result.StateName, result.FailedStage, result.Error).
		WithSource(summarizer.SourceInfo{
			Path:        cfg.InputPath,
			Format:      result.SourceFormat,
			Codec:       result.Codec,
			Decoder:     result.Decoder,
			PacketsRead: result.PacketsRead,
		}).
		WithKey(summarizer.KeySettings{
			PixelFormat: cfg.PixelFormats,
			Color:       cfg.Color,
			Similarity:  cfg.Similarity,
			Blend:       cfg.Blend,
			YUV:         cfg.YUV,
		}).
		WithFrame(result.Width, result.Height, result.DecodedFormat, result.KeyedFormat).
		WithOutput(summarizer.OutputInfo{
			Path:         cfg.OutputPath,
			BytesWritten: result.BytesWritten,
			Planes:       planes,
		}).
		Build()
}
