// Package pipeline assembles a dailies review video from a version directory.
//
// The Orchestrator resolves the version path, composites the slate, then runs
// the encode stages strictly in order:
//
//	IntroCardStage     0000.png            -> template_intro_card.mp4
//	SequenceEncodeStage %04d.png           -> {video}.mp4 (version dir)
//	ConcatStage        intro + sequence    -> output/{video}.mp4
//	AudioMuxStage      deliverable + wav   -> output/{video}_audio.mp4 (optional)
//	CleanupStage       removes every produced file except the deliverable
//
// Each encode stage builds one ffmpeg.Job and hands it to an ffmpeg.Encoder,
// so stages can be tested with an encoder that only writes files. A failed
// required stage aborts the run and removes what the run had produced.
package pipeline
