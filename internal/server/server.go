package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/screen-detect-mcp/internal/capture"
	"github.com/ironsheep/screen-detect-mcp/internal/detection"
	"github.com/ironsheep/screen-detect-mcp/internal/imaging"
)

const (
	serverName      = "screen-detect-mcp"
	protocolVersion = "2024-11-05"
	defaultQuality  = 600
)

// CaptureFunc grabs the content of a display.
type CaptureFunc func(display int) (image.Image, error)

// BoundsFunc returns the position and size of a display in the virtual
// screen.
type BoundsFunc func(display int) (image.Rectangle, error)

// Options configures a Server. Zero values select the defaults.
type Options struct {
	// Detector runs the detections. Defaults to a Detector without OCR.
	Detector *detection.Detector
	Logger   *slog.Logger
	// Quality is used when set_screen_metrics omits it and by capture.
	Quality float64
	// Display is the display captured when the caller omits it.
	Display int
	// Capture defaults to capture.Display.
	Capture CaptureFunc
	// DisplayBounds locates captured displays. Defaults to capture.Bounds
	// when Capture is defaulted too.
	DisplayBounds BoundsFunc
	Version       string
}

// Server handles MCP protocol communication
type Server struct {
	cache    *imaging.ImageCache
	detector *detection.Detector
	logger   *slog.Logger
	capture  CaptureFunc
	bounds   BoundsFunc
	quality  float64
	display  int
	version  string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance
func New(opts Options) *Server {
	s := &Server{
		cache:    imaging.NewImageCache(),
		detector: opts.Detector,
		logger:   opts.Logger,
		capture:  opts.Capture,
		bounds:   opts.DisplayBounds,
		quality:  opts.Quality,
		display:  opts.Display,
		version:  opts.Version,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.detector == nil {
		s.detector = detection.New(s.logger)
	}
	if s.capture == nil {
		s.capture = func(display int) (image.Image, error) {
			img, err := capture.Display(display)
			if err != nil {
				return nil, err
			}
			return img, nil
		}
		if s.bounds == nil {
			s.bounds = capture.Bounds
		}
	}
	if s.quality <= 0 {
		s.quality = defaultQuality
	}
	if s.version == "" {
		s.version = "dev"
	}
	return s
}

// Run serves requests from stdin and writes responses to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r until EOF and writes the
// responses to w. Requests are handled one at a time.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Error("failed to parse request", slog.String("err", err.Error()))
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				s.logger.Error("failed to encode response", slog.String("err", err.Error()))
			}
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", slog.String("err", err.Error()))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.logger.Debug("request", slog.String("method", req.Method), slog.Any("id", req.ID))

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: map[string]interface{}{
				"tools": GetToolDefinitions(),
			},
		}
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    serverName,
				"version": s.version,
			},
		},
	}
}
