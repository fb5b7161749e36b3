package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/ironsheep/screen-detect-mcp/internal/detection"
	"github.com/ironsheep/screen-detect-mcp/internal/imaging"
	"github.com/ironsheep/screen-detect-mcp/internal/match"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "detector_detect_image").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// A detection that finds nothing is not an error.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", slog.String("tool", params.Name), slog.String("err", err.Error()))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image files
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_crop":
		return s.handleImageCrop(args)

	// Screen
	case "detector_set_screen_metrics":
		return s.handleSetScreenMetrics(args)
	case "detector_set_screen_image":
		return s.handleSetScreenImage(args)
	case "detector_capture_screen":
		return s.handleCaptureScreen(args)

	// Detection
	case "detector_detect_image":
		return s.handleDetectImage(args)
	case "detector_detect_text":
		return s.handleDetectText(args)
	case "detector_verify_conditions":
		return s.handleVerifyConditions(args)
	case "detector_status":
		return s.handleStatus(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response. An empty data is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	mcpErr := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		mcpErr.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   mcpErr,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image File Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageCropArgs struct {
	Path       string `json:"path"`
	X1         int    `json:"x1"`
	Y1         int    `json:"y1"`
	X2         int    `json:"x2"`
	Y2         int    `json:"y2"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputPath == "" {
		return nil, errors.New("output_path is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := imaging.SaveCrop(img, a.X1, a.Y1, a.X2, a.Y2, a.OutputPath)
	if err != nil {
		return nil, err
	}
	// The output may be an existing condition being re-authored.
	s.cache.Evict(a.OutputPath)
	s.detector.EvictCondition(a.OutputPath)
	return res, nil
}

// === Screen Handlers ===

type screenMetricsArgs struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Quality *float64 `json:"quality"`
}

type screenMetricsResult struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Quality    float64 `json:"quality"`
	ScaleRatio float64 `json:"scale_ratio"`
}

func (s *Server) handleSetScreenMetrics(args json.RawMessage) (interface{}, error) {
	var a screenMetricsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	quality := s.quality
	if a.Quality != nil {
		quality = *a.Quality
	}
	ratio, err := s.detector.SetScreenMetrics(a.Width, a.Height, quality)
	if err != nil {
		return nil, err
	}
	return &screenMetricsResult{
		Width:      a.Width,
		Height:     a.Height,
		Quality:    quality,
		ScaleRatio: ratio,
	}, nil
}

type screenImageArgs struct {
	Path string `json:"path"`
}

type screenImageResult struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	ScaleRatio float64 `json:"scale_ratio"`
}

func (s *Server) handleSetScreenImage(args json.RawMessage) (interface{}, error) {
	var a screenImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	// Frames are rewritten at the same path, never serve a stale one.
	img, err := s.cache.Reload(a.Path)
	if err != nil {
		return nil, err
	}

	if err := s.detector.SetScreenImage(img); err != nil {
		return nil, err
	}
	return s.screenImageResult(img), nil
}

type captureScreenArgs struct {
	Display *int `json:"display"`
}

type captureScreenResult struct {
	screenImageResult
	Display int `json:"display"`
	// DisplayX and DisplayY locate the display in the virtual screen. Add
	// them to detection coordinates to get desktop coordinates.
	DisplayX       int  `json:"display_x"`
	DisplayY       int  `json:"display_y"`
	MetricsChanged bool `json:"metrics_changed"`
}

func (s *Server) handleCaptureScreen(args json.RawMessage) (interface{}, error) {
	var a captureScreenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	display := s.display
	if a.Display != nil {
		display = *a.Display
	}

	img, err := s.capture(display)
	if err != nil {
		return nil, err
	}

	size := img.Bounds().Size()
	status := s.detector.Status()
	changed := !status.MetricsSet || size != s.detector.ScreenBounds().Size()
	if changed {
		quality := s.quality
		if status.MetricsSet {
			quality = status.Quality
		}
		if _, err := s.detector.SetScreenMetrics(size.X, size.Y, quality); err != nil {
			return nil, err
		}
	}

	if err := s.detector.SetScreenImage(img); err != nil {
		return nil, err
	}
	res := &captureScreenResult{
		screenImageResult: *s.screenImageResult(img),
		Display:           display,
		MetricsChanged:    changed,
	}
	if s.bounds != nil {
		b, err := s.bounds(display)
		if err != nil {
			s.logger.Warn("display position unknown", slog.Int("display", display), slog.String("err", err.Error()))
		} else {
			res.DisplayX, res.DisplayY = b.Min.X, b.Min.Y
		}
	}
	return res, nil
}

func (s *Server) screenImageResult(img image.Image) *screenImageResult {
	return &screenImageResult{
		Width:      img.Bounds().Dx(),
		Height:     img.Bounds().Dy(),
		ScaleRatio: s.detector.ScaleRatio(),
	}
}

// === Detection Handlers ===

// areaArgs is an optional detection area in full-size screen pixels. A
// missing width or height selects the whole screen.
type areaArgs struct {
	X      *int `json:"x"`
	Y      *int `json:"y"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
}

func (a areaArgs) origin() image.Point {
	var p image.Point
	if a.X != nil {
		p.X = *a.X
	}
	if a.Y != nil {
		p.Y = *a.Y
	}
	return p
}

func (a areaArgs) rect() image.Rectangle {
	if a.Width <= 0 || a.Height <= 0 {
		return image.Rectangle{}
	}
	o := a.origin()
	return image.Rect(o.X, o.Y, o.X+a.Width, o.Y+a.Height)
}

// regionJSON is a rectangle as origin and size.
type regionJSON struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func newRegionJSON(r image.Rectangle) regionJSON {
	return regionJSON{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// detectionResult is the tool view of a match.Result, in full-size pixels.
type detectionResult struct {
	Detected   bool        `json:"detected"`
	CenterX    int         `json:"center_x"`
	CenterY    int         `json:"center_y"`
	Confidence float64     `json:"confidence"`
	Area       *regionJSON `json:"area,omitempty"`
	ColorDiff  float64     `json:"color_diff"`
	Rejected   int         `json:"rejected"`
	Threshold  int         `json:"threshold"`
	SearchArea regionJSON  `json:"search_area"`
}

func newDetectionResult(res match.Result, threshold int, searched image.Rectangle) *detectionResult {
	out := &detectionResult{
		Detected:   res.Detected,
		Confidence: res.Confidence,
		ColorDiff:  res.ColorDiff,
		Rejected:   res.Rejected,
		Threshold:  match.ClampThreshold(threshold),
		SearchArea: newRegionJSON(searched),
	}
	if res.Detected {
		area := newRegionJSON(res.Area.FullSize)
		out.Area = &area
		out.CenterX = res.Center.X
		out.CenterY = res.Center.Y
	}
	return out
}

// conditionArgs names a condition image and where to search it.
type conditionArgs struct {
	areaArgs
	ConditionPath string `json:"condition_path"`
	Threshold     *int   `json:"threshold"`
	DetectionType string `json:"detection_type"`
}

// condition validates a and converts it. The condition is expected to be
// detected.
func (a conditionArgs) condition() (detection.Condition, error) {
	if a.ConditionPath == "" {
		return detection.Condition{}, errors.New("condition_path is required")
	}
	if a.Threshold == nil {
		return detection.Condition{}, errors.New("threshold is required")
	}
	kind, err := detection.ParseDetectionType(a.DetectionType)
	if err != nil {
		return detection.Condition{}, err
	}

	area := a.rect()
	if kind == detection.Exact {
		if a.X == nil || a.Y == nil {
			return detection.Condition{}, errors.New("exact detection requires x and y")
		}
		area = image.Rectangle{Min: a.origin()}
	}
	return detection.Condition{
		Path:             a.ConditionPath,
		Area:             area,
		Type:             kind,
		Threshold:        *a.Threshold,
		ShouldBeDetected: true,
	}, nil
}

func (s *Server) handleDetectImage(args json.RawMessage) (interface{}, error) {
	var a conditionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := a.condition()
	if err != nil {
		return nil, err
	}

	res := s.detector.CheckCondition(c, s.cache.Load)
	if res.Err != nil && !errors.Is(res.Err, detection.ErrNoScreenImage) {
		return nil, res.Err
	}
	return newDetectionResult(res.Match, c.Threshold, res.SearchArea), nil
}

type verifyConditionArgs struct {
	conditionArgs
	ShouldBeDetected *bool `json:"should_be_detected"`
}

type verifyConditionsArgs struct {
	Operator   string                `json:"operator"`
	Conditions []verifyConditionArgs `json:"conditions"`
}

type conditionResult struct {
	detectionResult
	ConditionPath    string `json:"condition_path"`
	ShouldBeDetected bool   `json:"should_be_detected"`
	Fulfilled        bool   `json:"fulfilled"`
	Error            string `json:"error,omitempty"`
}

type verifyConditionsResult struct {
	Fulfilled bool              `json:"fulfilled"`
	Operator  string            `json:"operator"`
	Evaluated int               `json:"evaluated"`
	Total     int               `json:"total"`
	Results   []conditionResult `json:"results"`
}

func (s *Server) handleVerifyConditions(args json.RawMessage) (interface{}, error) {
	var a verifyConditionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	op, err := detection.ParseConditionOperator(a.Operator)
	if err != nil {
		return nil, err
	}
	if len(a.Conditions) == 0 {
		return nil, errors.New("conditions is required")
	}

	conds := make([]detection.Condition, len(a.Conditions))
	for i, ca := range a.Conditions {
		c, err := ca.condition()
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		if ca.ShouldBeDetected != nil {
			c.ShouldBeDetected = *ca.ShouldBeDetected
		}
		conds[i] = c
	}

	ok, results := s.detector.VerifyConditions(op, conds, s.cache.Load)
	out := &verifyConditionsResult{
		Fulfilled: ok,
		Operator:  op.String(),
		Evaluated: len(results),
		Total:     len(conds),
		Results:   make([]conditionResult, 0, len(results)),
	}
	for _, r := range results {
		cr := conditionResult{
			detectionResult:  *newDetectionResult(r.Match, r.Condition.Threshold, r.SearchArea),
			ConditionPath:    r.Condition.Path,
			ShouldBeDetected: r.Condition.ShouldBeDetected,
			Fulfilled:        r.Fulfilled,
		}
		if r.Err != nil {
			cr.Error = r.Err.Error()
		}
		out.Results = append(out.Results, cr)
	}
	return out, nil
}

type detectTextArgs struct {
	areaArgs
	Text      string `json:"text"`
	Threshold *int   `json:"threshold"`
}

func (s *Server) handleDetectText(args json.RawMessage) (interface{}, error) {
	var a detectTextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Text == "" {
		return nil, errors.New("text is required")
	}
	if a.Threshold == nil {
		return nil, errors.New("threshold is required")
	}

	area := a.rect()
	res := s.detector.DetectText(a.Text, area, *a.Threshold)
	if area.Empty() {
		area = s.detector.ScreenBounds()
	}
	return newDetectionResult(res, *a.Threshold, area), nil
}

type statusResult struct {
	detection.Status
	CachedImages int `json:"cached_images"`
}

func (s *Server) handleStatus(json.RawMessage) (interface{}, error) {
	return &statusResult{
		Status:       s.detector.Status(),
		CachedImages: s.cache.Len(),
	}, nil
}
