package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/csnewman/ffmpeg-go"
	"github.com/google/uuid"
)

// ErrNotStereo is returned when a channel split is attempted on input that
// does not carry exactly two channels. The analysis facade only splits after
// profiling, so hitting this indicates a caller bug.
var ErrNotStereo = errors.New("audio is not stereo; cannot split channels")

// ChannelFiles holds the two temporary mono artifacts produced by a channel
// split. Ownership transfers to the caller, which must call Remove on every
// exit path.
type ChannelFiles struct {
	Left  string
	Right string
}

// Remove deletes both temporary artifacts. Missing files are ignored so it
// is safe under defer regardless of how far the caller got.
func (c *ChannelFiles) Remove() {
	for _, path := range []string{c.Left, c.Right} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			// Best effort; the temp dir is cleaned by the OS eventually.
			continue
		}
	}
}

// SplitChannels extracts each channel of a two-channel recording into its own
// temporary mono WAV file. On any error the partial artifacts are removed
// before returning.
func SplitChannels(path string) (*ChannelFiles, error) {
	reader, info, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	channels := info.Channels
	reader.Close()

	if channels != 2 {
		return nil, fmt.Errorf("%w: %d channel(s) in %s", ErrNotStereo, channels, path)
	}

	id := uuid.NewString()
	files := &ChannelFiles{
		Left:  filepath.Join(os.TempDir(), id+"_left.wav"),
		Right: filepath.Join(os.TempDir(), id+"_right.wav"),
	}

	if err := extractChannel(path, 0, files.Left); err != nil {
		files.Remove()
		return nil, fmt.Errorf("failed to extract left channel: %w", err)
	}
	if err := extractChannel(path, 1, files.Right); err != nil {
		files.Remove()
		return nil, fmt.Errorf("failed to extract right channel: %w", err)
	}

	return files, nil
}

// extractChannel decodes the input, routes a single source channel to a mono
// stream via the pan filter, and writes it out as 16-bit WAV.
func extractChannel(inputPath string, channel int, outputPath string) error {
	reader, info, err := OpenFile(inputPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	filterSpec := fmt.Sprintf("pan=mono|c0=c%d,aformat=sample_fmts=s16:sample_rates=%d",
		channel, info.SampleRate)

	filterGraph, bufferSrcCtx, bufferSinkCtx, err := SetupFilterGraph(reader.DecoderContext(), filterSpec)
	if err != nil {
		return fmt.Errorf("failed to create filter graph: %w", err)
	}
	defer ffmpeg.AVFilterGraphFree(&filterGraph)

	encoder, err := newWAVEncoder(outputPath, bufferSinkCtx)
	if err != nil {
		return err
	}
	defer encoder.Close()

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
			if err := encoder.WriteFrame(filteredFrame); err != nil {
				ffmpeg.AVFrameUnref(filteredFrame)
				return err
			}
			ffmpeg.AVFrameUnref(filteredFrame)
		}
	}

	for {
		frame, err := reader.ReadFrame()
		if err != nil {
			return fmt.Errorf("failed to read frame: %w", err)
		}
		if frame == nil {
			break // EOF
		}

		if _, err := ffmpeg.AVBuffersrcAddFrameFlags(bufferSrcCtx, frame, 0); err != nil {
			return fmt.Errorf("failed to add frame to filter: %w", err)
		}
		if err := drainSink(); err != nil {
			return err
		}
	}

	// Flush the filter graph, then the encoder
	if _, err := ffmpeg.AVBuffersrcAddFrameFlags(bufferSrcCtx, nil, 0); err != nil {
		return fmt.Errorf("failed to flush filter: %w", err)
	}
	if err := drainSink(); err != nil {
		return err
	}
	if err := encoder.Flush(); err != nil {
		return err
	}

	return encoder.Close()
}
