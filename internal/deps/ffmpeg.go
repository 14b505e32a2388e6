package deps

import "strings"

// MediaRequirements lists the media tools a run needs. ffprobe is only
// required when the deliverable is probed after a run.
func MediaRequirements(ffmpegBinary, ffprobeBinary string, probe bool) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     orDefault(ffmpegBinary, "ffmpeg"),
			Description: "Required for every encode stage",
		},
		{
			Name:        "FFprobe",
			Command:     orDefault(ffprobeBinary, "ffprobe"),
			Description: "Verifies the finished deliverable",
			Optional:    !probe,
		},
	}
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
