package diarize

import (
	"errors"
	"fmt"
	"unsafe"

	ffmpeg "github.com/csnewman/ffmpeg-go"

	"github.com/daialabs/callaudit/internal/audio"
)

// monoSamples decodes the file at path, downmixes to mono and resamples to
// the given rate, returning normalized samples in [-1, 1].
func monoSamples(path string, sampleRate int) ([]float64, error) {
	reader, info, err := audio.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	filterSpec := fmt.Sprintf("aformat=sample_fmts=s16:channel_layouts=mono,aresample=%d", sampleRate)

	filterGraph, bufferSrcCtx, bufferSinkCtx, err := audio.SetupFilterGraph(reader.DecoderContext(), filterSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter graph: %w", err)
	}
	defer ffmpeg.AVFilterGraphFree(&filterGraph)

	// Preallocate from the container duration estimate.
	estimated := int(info.Duration * float64(sampleRate))
	if estimated < 0 {
		estimated = 0
	}
	samples := make([]float64, 0, estimated)

	filteredFrame := ffmpeg.AVFrameAlloc()
	defer ffmpeg.AVFrameFree(&filteredFrame)

	drainSink := func() error {
		for {
			if _, err := ffmpeg.AVBuffersinkGetFrame(bufferSinkCtx, filteredFrame); err != nil {
				if errors.Is(err, ffmpeg.EAgain) || errors.Is(err, ffmpeg.AVErrorEOF) {
					return nil
				}
				return fmt.Errorf("failed to get filtered frame: %w", err)
			}
			samples = appendFrameSamples(samples, filteredFrame)
			ffmpeg.AVFrameUnref(filteredFrame)
		}
	}

	for {
		frame, err := reader.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("failed to read frame: %w", err)
		}
		if frame == nil {
			break // EOF
		}

		if _, err := ffmpeg.AVBuffersrcAddFrameFlags(bufferSrcCtx, frame, 0); err != nil {
			return nil, fmt.Errorf("failed to add frame to filter: %w", err)
		}
		if err := drainSink(); err != nil {
			return nil, err
		}
	}

	// Flush the filter graph
	if _, err := ffmpeg.AVBuffersrcAddFrameFlags(bufferSrcCtx, nil, 0); err != nil {
		return nil, fmt.Errorf("failed to flush filter: %w", err)
	}
	if err := drainSink(); err != nil {
		return nil, err
	}

	return samples, nil
}

// appendFrameSamples converts the S16 mono frame payload to normalized
// float64 samples. The filter chain guarantees the format, so anything else
// is skipped rather than misread.
func appendFrameSamples(dst []float64, frame *ffmpeg.AVFrame) []float64 {
	if frame == nil || frame.NbSamples() == 0 {
		return dst
	}
	if ffmpeg.AVSampleFormat(frame.Format()) != ffmpeg.AVSampleFmtS16 {
		return dst
	}

	dataPtr := frame.Data().Get(0)
	if dataPtr == nil {
		return dst
	}

	nbSamples := int(frame.NbSamples()) * frame.ChLayout().NbChannels()
	raw := unsafe.Slice((*int16)(dataPtr), nbSamples)
	for _, s := range raw {
		dst = append(dst, float64(s)/32768.0)
	}
	return dst
}
