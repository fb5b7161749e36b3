package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// areaProps are the optional detection area arguments, merged into props.
func areaProps(props map[string]interface{}) map[string]interface{} {
	props["x"] = integerProp("Left edge of the detection area in screen pixels (0-based)")
	props["y"] = integerProp("Top edge of the detection area in screen pixels (0-based)")
	props["width"] = integerProp("Width of the detection area. Omit width or height to search the whole screen.")
	props["height"] = integerProp("Height of the detection area. Omit width or height to search the whole screen.")
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image files
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": stringProp("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": stringProp("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and save it to a file. Use this to author condition images from a captured screen.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        stringProp("Absolute path to the source image"),
					"x1":          integerProp("Left edge X coordinate (0-based)"),
					"y1":          integerProp("Top edge Y coordinate (0-based)"),
					"x2":          integerProp("Right edge X coordinate (exclusive)"),
					"y2":          integerProp("Bottom edge Y coordinate (exclusive)"),
					"output_path": stringProp("Where to write the crop; the format follows the extension (.png recommended)"),
				},
				"required": []string{"path", "x1", "y1", "x2", "y2", "output_path"},
			},
		},

		// Screen
		{
			Name:        "detector_set_screen_metrics",
			Description: "Set the screen size and detection quality. Returns the scale ratio used for detection. Must be called before the first screen image, and again when the screen size changes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width":  integerProp("Screen width in pixels"),
					"height": integerProp("Screen height in pixels"),
					"quality": map[string]interface{}{
						"type":        "number",
						"description": "Largest processed dimension in pixels. Lower is faster and less precise. Defaults to the server configuration.",
					},
				},
				"required": []string{"width", "height"},
			},
		},
		{
			Name:        "detector_set_screen_image",
			Description: "Load a screen frame from a file. Its size must match the screen metrics. Every later detection runs on this frame.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": stringProp("Absolute path to the screen image"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "detector_capture_screen",
			Description: "Capture a display and use it as the screen frame. Screen metrics are updated when the display size differs. Returns the display position in the virtual screen, to convert detection coordinates to desktop coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"display": integerProp("Display index (0-based). Defaults to the server configuration."),
				},
			},
		},

		// Detection
		{
			Name:        "detector_detect_image",
			Description: "Search a condition image on the current screen frame. Returns whether it was found, its center and its area in screen pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": areaProps(map[string]interface{}{
					"condition_path": stringProp("Absolute path to the condition image"),
					"threshold":      integerProp("Strictness from 0 (anything matches) to 100 (identical only)"),
					"detection_type": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"whole_screen", "in_area", "exact"},
						"description": "whole_screen ignores the area, in_area searches it (default), exact only checks the condition placed at x,y",
					},
				}),
				"required": []string{"condition_path", "threshold"},
			},
		},
		{
			Name:        "detector_detect_text",
			Description: "Search a single word on the current screen frame with OCR. Returns whether it was found, its center and its area in screen pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": areaProps(map[string]interface{}{
					"text":      stringProp("Word to find, matched exactly"),
					"threshold": integerProp("Minimum OCR confidence from 0 to 100"),
				}),
				"required": []string{"text", "threshold"},
			},
		},
		{
			Name:        "detector_verify_conditions",
			Description: "Check a list of condition images on the current screen frame and combine them with and/or. Evaluation stops as soon as the outcome is known. An unreadable condition is reported and counts as not fulfilled.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"operator": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"and", "or"},
						"description": "and: every condition must be fulfilled (default). or: at least one.",
					},
					"conditions": map[string]interface{}{
						"type":        "array",
						"description": "Conditions in evaluation order",
						"items": map[string]interface{}{
							"type": "object",
							"properties": areaProps(map[string]interface{}{
								"condition_path": stringProp("Absolute path to the condition image"),
								"threshold":      integerProp("Strictness from 0 (anything matches) to 100 (identical only)"),
								"detection_type": map[string]interface{}{
									"type": "string",
									"enum": []string{"whole_screen", "in_area", "exact"},
								},
								"should_be_detected": map[string]interface{}{
									"type":        "boolean",
									"description": "Expected outcome. false asserts the condition is absent. Defaults to true.",
								},
							}),
							"required": []string{"condition_path", "threshold"},
						},
					},
				},
				"required": []string{"conditions"},
			},
		},
		{
			Name:        "detector_status",
			Description: "Report the screen metrics, scale ratio, whether a frame is loaded and whether text detection is available.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
