package versionpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dailies/internal/services"
)

const (
	// OutputDirName is the deliverable directory under the project root.
	OutputDirName = "output"
	// SlateFrameName is the composited slate; it is frame 0 of the sequence.
	SlateFrameName = "0000.png"
	// FramePattern is the ffmpeg image2 pattern for the rendered frames.
	FramePattern = "%04d.png"
	// IntroCardName is the looped slate video written next to the frames.
	IntroCardName = "template_intro_card.mp4"
	// AudioSuffix marks a deliverable that carries the reference audio.
	AudioSuffix = "_audio"

	videoExt    = ".mp4"
	audioExt    = ".wav"
	minSegments = 3
)

// VersionPath is the resolved identity of a review version.
type VersionPath struct {
	SequenceID string
	ShotID     string
	VersionID  string
	// VersionDir is the normalized version directory, without a trailing separator.
	VersionDir string
	// RootPath holds every segment except the last three.
	RootPath   string
	OutputPath string
}

// Resolve splits path into segments and derives the version identity. Leading
// and trailing separators are ignored; fewer than three segments is an error.
func Resolve(path string) (VersionPath, error) {
	segments := strings.FieldsFunc(path, isSeparator)
	if len(segments) < minSegments {
		return VersionPath{}, services.Wrap(
			services.ErrInvalidPath, "resolve", "split path",
			fmt.Sprintf("too few segments in %q (need sequence/shot/version)", path), nil)
	}

	absolute := isSeparator(rune(path[0]))
	n := len(segments)
	vp := VersionPath{
		SequenceID: segments[n-3],
		ShotID:     segments[n-2],
		VersionID:  segments[n-1],
		VersionDir: joinSegments(segments, absolute),
		RootPath:   joinSegments(segments[:n-3], absolute),
	}
	vp.OutputPath = filepath.Join(vp.RootPath, OutputDirName)
	return vp, nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == os.PathSeparator
}

func joinSegments(segments []string, absolute bool) string {
	sep := string(os.PathSeparator)
	joined := strings.Join(segments, sep)
	switch {
	case absolute:
		return sep + joined
	case joined == "":
		return "."
	default:
		return joined
	}
}

// VideoName is the deliverable file name: {sequence}_{shot}_{version}.mp4.
func (v VersionPath) VideoName() string {
	return v.SequenceID + "_" + v.ShotID + "_" + v.VersionID + videoExt
}

// AudioVideoName is the muxed deliverable name with the audio suffix before
// the extension.
func (v VersionPath) AudioVideoName() string {
	return strings.TrimSuffix(v.VideoName(), videoExt) + AudioSuffix + videoExt
}

// ShotName is the slate label "{sequence} : {shot}".
func (v VersionPath) ShotName() string {
	return v.SequenceID + " : " + v.ShotID
}

// ShotDir is the parent of the version directory.
func (v VersionPath) ShotDir() string {
	return filepath.Dir(v.VersionDir)
}

// SequenceDir is the parent of the shot directory.
func (v VersionPath) SequenceDir() string {
	return filepath.Dir(v.ShotDir())
}

// AudioName is the conventional reference audio file name.
func (v VersionPath) AudioName() string {
	return v.SequenceID + "_" + v.ShotID + AudioSuffix + audioExt
}

// AudioCandidates lists where the reference audio may live, in lookup order:
// the shot directory first, then the sequence directory.
func (v VersionPath) AudioCandidates() []string {
	return []string{
		filepath.Join(v.ShotDir(), v.AudioName()),
		filepath.Join(v.SequenceDir(), v.AudioName()),
	}
}

// SlateFrame is the path of the composited slate image.
func (v VersionPath) SlateFrame() string {
	return filepath.Join(v.VersionDir, SlateFrameName)
}

// FrameSequence is the numbered frame input pattern.
func (v VersionPath) FrameSequence() string {
	return filepath.Join(v.VersionDir, FramePattern)
}

// IntroCard is the path of the intro card video.
func (v VersionPath) IntroCard() string {
	return filepath.Join(v.VersionDir, IntroCardName)
}

// SequenceVideo is the pre-concat sequence encode inside the version directory.
func (v VersionPath) SequenceVideo() string {
	return filepath.Join(v.VersionDir, v.VideoName())
}

// Deliverable is the concatenated review video in the output directory.
func (v VersionPath) Deliverable() string {
	return filepath.Join(v.OutputPath, v.VideoName())
}

// AudioDeliverable is the audio-muxed review video in the output directory.
func (v VersionPath) AudioDeliverable() string {
	return filepath.Join(v.OutputPath, v.AudioVideoName())
}
