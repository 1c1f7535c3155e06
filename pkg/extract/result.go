package extract

type Metadata struct {
	Success    bool    `json:"success"`
	FrameCount uint64  `json:"frame_count"`
	Width      uint32  `json:"width"`
	Height     uint32  `json:"height"`
	FrameRate  float32 `json:"frame_rate"`
	Duration   float64 `json:"duration"`
}

// duration is zero for clips reporting no frame rate.
func duration(frameCount uint64, frameRate float32) float64 {
	if frameRate <= 0 {
		return 0
	}
	return float64(frameCount) / float64(frameRate)
}

type FrameResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}
