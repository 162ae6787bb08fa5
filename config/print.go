package config

import "fmt"

// PrintConfig prints the effective configuration (used by -dry-run).
func (c *Config) PrintConfig(sub string) {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("                 Effective Configuration                  ")
	fmt.Println("═══════════════════════════════════════════════════════════")

	if sub == CmdExtract || sub == CmdRun {
		fmt.Printf("Input:           %s\n", c.Input)
		fmt.Printf("Frame Count:     %d\n", c.FrameCount)
		fmt.Printf("Input FOV:       %gx%g degrees\n", c.InputHFOV, c.InputVFOV)
		fmt.Printf("Output FOV:      %gx%g degrees\n", c.OutputHFOV, c.OutputVFOV)
		fmt.Printf("Interpolation:   %s\n", c.Interpolation)
		fmt.Printf("Concurrency:     %d\n", c.MaxConcurrency)
		if c.FrameTimeout > 0 {
			fmt.Printf("Frame Timeout:   %s\n", c.FrameTimeout)
		}
	}

	if sub == CmdEncode || sub == CmdRun {
		fmt.Printf("Output:          %s\n", c.Output)
		fmt.Printf("Length:          %g seconds\n", c.Length)
		fmt.Printf("Output FPS:      %g\n", c.FPS)
		fmt.Printf("Scale:           %s\n", c.Scale)
	}

	if c.FramesDir != "" {
		fmt.Printf("Frames Dir:      %s\n", c.FramesDir)
	}
	fmt.Printf("FFmpeg:          %s\n", c.FFmpegPath)
	fmt.Printf("FFprobe:         %s\n", c.FFprobePath)
	fmt.Println("═══════════════════════════════════════════════════════════")
}
