package viewtypes

// ============================================================================
// SHARED CSS CLASS CONSTANTS
// Class strings defined in static/dist/editor.css and reused across
// components. Combine them in templ class lists, e.g.
// class={ ButtonClass, templ.KV(ActiveClass, on) }.
// ============================================================================

// SectionLabel is the small uppercase heading above each panel section.
var SectionLabel = "section-label"

// PanelClass is the bordered container for the filter and history panels.
var PanelClass = "panel"

// ButtonClass is the standard outlined button.
var ButtonClass = "btn"

// GhostButtonSm is a small ghost-style button used in the toolbar.
var GhostButtonSm = "btn btn-sm btn-ghost"

// PrimaryButton is the filled call-to-action button (choose image, save).
var PrimaryButton = "btn btn-primary"

// ActiveClass marks the selected filter and the current history entry.
var ActiveClass = "active"

// SliderClass styles range inputs.
var SliderClass = "slider"
