// Package server implements the MCP (Model Context Protocol) server exposing
// the screen detection engine.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image files:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_crop: Save a region of an image, typically a condition
//
// Screen:
//   - detector_set_screen_metrics: Screen size and quality, returns the ratio
//   - detector_set_screen_image: Load the frame to detect on from a file
//   - detector_capture_screen: Grab a display as the frame
//
// Detection:
//   - detector_detect_image: Search a condition image
//   - detector_detect_text: Search a word with OCR
//   - detector_verify_conditions: Combine condition checks with and/or
//   - detector_status: Report the detector state
//
// A typical session sets the screen metrics once, then for every new frame
// pushes the screen image and runs any number of detections on it.
//
// # Results
//
// Detection tools answer with detected, center_x, center_y, confidence and
// the matched area in screen pixels. Not finding anything, or detecting
// before a frame was pushed, is a normal answer with detected false. Only
// malformed arguments and unreadable files are tool errors, except in
// detector_verify_conditions where an unreadable condition is reported in
// its result and counts as not fulfilled.
//
// # Concurrency
//
// Requests are served one at a time, in arrival order. The detector is
// therefore never accessed concurrently.
package server
