package registry

// stepDef is the single source for both the live matcher table and the
// descriptive catalog. Order matters: it is the matcher registration order.
type stepDef struct {
	id          string
	pattern     string
	aliases     []string
	category    string
	description string
	params      []ParameterInfo
	examples    []string
}

var selectorParam = ParameterInfo{Name: "selector", Type: "string", Required: true, Description: "CSS selector of the target element"}
var textParam = ParameterInfo{Name: "text", Type: "string", Required: true, Description: "Literal text value"}
var countParam = ParameterInfo{Name: "count", Type: "int", Required: true, Description: "Expected number of elements"}

var builtinSteps = []stepDef{
	// Navigation
	{
		id:      "navigate_to",
		pattern: `I navigate to "([^"]+)"`,
		aliases: []string{
			`I go to "([^"]+)"`,
			`I open "([^"]+)"`,
			`I visit "([^"]+)"`,
		},
		category:    "Navigation",
		description: "Navigate the browser to a URL",
		params:      []ParameterInfo{{Name: "url", Type: "string", Required: true, Description: "Absolute URL to open"}},
		examples:    []string{`Given I navigate to "https://example.com"`},
	},
	{
		id:          "go_back",
		pattern:     `I go back`,
		aliases:     []string{`I navigate back`},
		category:    "Navigation",
		description: "Navigate one entry back in browser history",
	},
	{
		id:          "go_forward",
		pattern:     `I go forward`,
		aliases:     []string{`I navigate forward`},
		category:    "Navigation",
		description: "Navigate one entry forward in browser history",
	},
	{
		id:          "refresh",
		pattern:     `I refresh the page`,
		aliases:     []string{`I reload the page`},
		category:    "Navigation",
		description: "Reload the current page",
	},
	{
		id:          "wait_load",
		pattern:     `the page loads`,
		aliases:     []string{`I wait for the page to load`, `I wait for page to load`},
		category:    "Navigation",
		description: "Wait for the current page load to complete",
	},

	// Waiting
	{
		id:          "wait_seconds",
		pattern:     `I wait (\d+) seconds?`,
		aliases:     []string{`I wait for (\d+) seconds?`, `I pause for (\d+) seconds?`, `I sleep (\d+) seconds?`},
		category:    "Waiting",
		description: "Pause execution for a number of seconds",
		params:      []ParameterInfo{{Name: "seconds", Type: "int", Required: true, Description: "Seconds to wait"}},
		examples:    []string{`When I wait 3 seconds`},
	},
	{
		id:          "wait_ms",
		pattern:     `I wait (\d+) milliseconds?`,
		aliases:     []string{`I wait for (\d+) milliseconds?`},
		category:    "Waiting",
		description: "Pause execution for a number of milliseconds",
		params:      []ParameterInfo{{Name: "milliseconds", Type: "int", Required: true, Description: "Milliseconds to wait"}},
	},
	{
		id:          "wait_visible",
		pattern:     `I wait for element "([^"]+)" to be visible`,
		aliases:     []string{`I wait for "([^"]+)" to be visible`, `I wait until "([^"]+)" is visible`},
		category:    "Waiting",
		description: "Wait until an element is visible",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "wait_appear",
		pattern:     `I wait for element "([^"]+)" to appear`,
		aliases:     []string{`I wait for "([^"]+)" to appear`, `I wait until "([^"]+)" appears`},
		category:    "Waiting",
		description: "Wait until an element is attached to the page",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "wait_hidden",
		pattern:     `I wait for element "([^"]+)" to be hidden`,
		aliases:     []string{`I wait for "([^"]+)" to disappear`},
		category:    "Waiting",
		description: "Wait until an element is hidden or detached",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "wait_for_text",
		pattern:     `I wait for text "([^"]+)" to appear`,
		category:    "Waiting",
		description: "Wait until the page contains the given text",
		params:      []ParameterInfo{textParam},
	},
	{
		id:          "wait_for_element_text",
		pattern:     `I wait for element "([^"]+)" to contain "([^"]+)"`,
		category:    "Waiting",
		description: "Wait until an element contains the given text",
		params:      []ParameterInfo{selectorParam, textParam},
	},
	{
		id:          "wait_clickable",
		pattern:     `I wait for element "([^"]+)" to be (?:clickable|enabled)`,
		category:    "Waiting",
		description: "Wait until an element accepts interaction",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "wait_with_timeout",
		pattern:     `I wait for "([^"]+)" with timeout of (\d+) seconds`,
		category:    "Waiting",
		description: "Wait for an element with an explicit timeout",
		params:      []ParameterInfo{selectorParam, {Name: "timeout", Type: "int", Required: true, Description: "Timeout in seconds"}},
	},

	// Clicking
	{
		id:      "click",
		pattern: `I click on "([^"]+)"`,
		aliases: []string{
			`I click "([^"]+)"`,
			`I press "([^"]+)"`,
			`I tap "([^"]+)"`,
		},
		category:    "Clicking",
		description: "Click the element matching a selector",
		params:      []ParameterInfo{selectorParam},
		examples:    []string{`When I click on "button.submit"`},
	},
	{
		id:          "click_button_or_link",
		pattern:     `I click the "([^"]+)" (button|link)`,
		category:    "Clicking",
		description: "Click a button or link identified by its label",
		params: []ParameterInfo{
			{Name: "label", Type: "string", Required: true, Description: "Visible button or link label"},
			{Name: "kind", Type: "string", Required: true, Description: "Either button or link"},
		},
		examples: []string{`When I click the "Sign in" button`},
	},
	{
		id:          "click_submit",
		pattern:     `I click submit button`,
		aliases:     []string{`I click the submit button`},
		category:    "Clicking",
		description: "Click the form submit button",
	},
	{
		id:          "click_first_button",
		pattern:     `I click the first ([^ ]+) button`,
		category:    "Clicking",
		description: "Click the first button of a kind",
	},
	{
		id:          "click_last_button",
		pattern:     `I click the last ([^ ]+) button`,
		category:    "Clicking",
		description: "Click the last button of a kind",
	},
	{
		id:          "double_click",
		pattern:     `I double click on "([^"]+)"`,
		aliases:     []string{`I double-click "([^"]+)"`},
		category:    "Clicking",
		description: "Double-click an element",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "right_click",
		pattern:     `I right click on "([^"]+)"`,
		aliases:     []string{`I right-click "([^"]+)"`, `I click the right mouse button on "([^"]+)"`},
		category:    "Clicking",
		description: "Right-click an element",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "click_all",
		pattern:     `I click all "([^"]+)"`,
		category:    "Clicking",
		description: "Click every element matching a selector",
		params:      []ParameterInfo{selectorParam},
	},

	// Mouse
	{
		id:          "hover",
		pattern:     `I hover over "([^"]+)"`,
		aliases:     []string{`I hover "([^"]+)"`, `I move mouse to "([^"]+)"`},
		category:    "Mouse",
		description: "Move the pointer over an element",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "drag_and_drop",
		pattern:     `I drag "([^"]+)" to "([^"]+)"`,
		aliases:     []string{`I drag element "([^"]+)" and drop it on "([^"]+)"`},
		category:    "Mouse",
		description: "Drag one element onto another",
		params: []ParameterInfo{
			{Name: "source", Type: "string", Required: true, Description: "Selector of the dragged element"},
			{Name: "target", Type: "string", Required: true, Description: "Selector of the drop target"},
		},
	},

	// Input
	{
		id:      "type_text",
		pattern: `I type "([^"]+)" into "([^"]+)"`,
		aliases: []string{
			`I enter "([^"]+)" into "([^"]+)"`,
			`I type "([^"]+)" (?:in|into) "([^"]+)"`,
			`I enter "([^"]+)" (?:in|into) "([^"]+)"`,
			`I fill "([^"]+)" with "([^"]+)"`,
			`I fill in "([^"]+)" with "([^"]+)"`,
			`I input "([^"]+)" (?:in|into) "([^"]+)"`,
		},
		category:    "Input",
		description: "Type text into an input element",
		params:      []ParameterInfo{textParam, selectorParam},
		examples:    []string{`When I type "golang" into "input[name=q]"`},
	},
	{
		id:          "clear_text",
		pattern:     `I clear "([^"]+)"`,
		aliases:     []string{`I clear the input "([^"]+)"`, `I clear the field "([^"]+)"`},
		category:    "Input",
		description: "Clear the value of an input element",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "select_option",
		pattern:     `I select "([^"]+)" from "([^"]+)"`,
		aliases:     []string{`I choose "([^"]+)" from "([^"]+)"`, `I pick "([^"]+)" from "([^"]+)"`},
		category:    "Input",
		description: "Select an option from a dropdown",
		params:      []ParameterInfo{{Name: "option", Type: "string", Required: true, Description: "Option value or label"}, selectorParam},
	},
	{
		id:          "check",
		pattern:     `I check "([^"]+)"`,
		category:    "Input",
		description: "Check a checkbox",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "uncheck",
		pattern:     `I uncheck "([^"]+)"`,
		category:    "Input",
		description: "Uncheck a checkbox",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "toggle",
		pattern:     `I toggle "([^"]+)"`,
		category:    "Input",
		description: "Toggle a checkbox or switch",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "select_radio",
		pattern:     `I select the "([^"]+)" radio (?:button|option)`,
		category:    "Input",
		description: "Select a radio button",
	},
	{
		id:          "upload_file",
		pattern:     `I upload file "([^"]+)" to "([^"]+)"`,
		aliases:     []string{`I attach "([^"]+)" to "([^"]+)"`},
		category:    "Input",
		description: "Attach a file to a file input",
		params:      []ParameterInfo{{Name: "path", Type: "string", Required: true, Description: "Path of the file to upload"}, selectorParam},
	},

	// Keyboard
	{
		id:          "press_key",
		pattern:     `I press "([^"]+)" key`,
		category:    "Keyboard",
		description: "Press a named keyboard key",
		params:      []ParameterInfo{{Name: "key", Type: "string", Required: true, Description: "Key name, e.g. Enter"}},
	},
	{
		id:          "press_enter",
		pattern:     `I press the Enter key`,
		aliases:     []string{`I press Enter`},
		category:    "Keyboard",
		description: "Press the Enter key",
	},
	{
		id:          "press_escape",
		pattern:     `I press Escape key`,
		aliases:     []string{`I press Escape`},
		category:    "Keyboard",
		description: "Press the Escape key",
	},
	{
		id:          "press_tab",
		pattern:     `I press Tab key`,
		aliases:     []string{`I press Tab`},
		category:    "Keyboard",
		description: "Press the Tab key",
	},

	// Forms
	{
		id:          "submit_form",
		pattern:     `I submit the form "([^"]+)"`,
		aliases:     []string{`I submit "([^"]+)"`, `I submit the form`},
		category:    "Forms",
		description: "Submit a form",
	},

	// Scrolling
	{
		id:          "scroll_bottom",
		pattern:     `I scroll to bottom`,
		aliases:     []string{`I scroll to the bottom`},
		category:    "Scrolling",
		description: "Scroll to the bottom of the page",
	},
	{
		id:          "scroll_top",
		pattern:     `I scroll to top`,
		aliases:     []string{`I scroll to the top`},
		category:    "Scrolling",
		description: "Scroll to the top of the page",
	},
	{
		id:          "scroll_to_element",
		pattern:     `I scroll to "([^"]+)"`,
		category:    "Scrolling",
		description: "Scroll an element into view",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "scroll_down",
		pattern:     `I scroll down by (\d+) pixels?`,
		category:    "Scrolling",
		description: "Scroll down a number of pixels",
	},
	{
		id:          "scroll_up",
		pattern:     `I scroll up by (\d+) pixels?`,
		category:    "Scrolling",
		description: "Scroll up a number of pixels",
	},
	{
		id:          "scroll_pixels_vertical",
		pattern:     `I scroll (\d+) pixels? (down|up)`,
		category:    "Scrolling",
		description: "Scroll vertically a number of pixels",
	},

	// Visibility assertions
	{
		id:          "should_see",
		pattern:     `I should see "([^"]+)"`,
		aliases:     []string{`I should see the element "([^"]+)"`},
		category:    "Verification",
		description: "Assert that an element is visible",
		params:      []ParameterInfo{selectorParam},
		examples:    []string{`Then I should see "#results"`},
	},
	{
		id:          "should_not_see",
		pattern:     `I should not see "([^"]+)"`,
		aliases:     []string{`I should not see the element "([^"]+)"`},
		category:    "Verification",
		description: "Assert that an element is not visible",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "should_be_visible",
		pattern:     `the element "([^"]+)" should be visible`,
		aliases:     []string{`"([^"]+)" should be visible`},
		category:    "Verification",
		description: "Assert element visibility",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "should_not_be_visible",
		pattern:     `the element "([^"]+)" should not be visible`,
		aliases:     []string{`"([^"]+)" should not be visible`},
		category:    "Verification",
		description: "Assert element invisibility",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "should_exist",
		pattern:     `the element "([^"]+)" should exist`,
		category:    "Verification",
		description: "Assert that an element exists in the DOM",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "should_not_exist",
		pattern:     `the element "([^"]+)" should not exist`,
		category:    "Verification",
		description: "Assert that no element matches the selector",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "should_be_enabled",
		pattern:     `the element "([^"]+)" should be enabled`,
		category:    "Verification",
		description: "Assert that an element is enabled",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "should_be_disabled",
		pattern:     `the element "([^"]+)" should be disabled`,
		category:    "Verification",
		description: "Assert that an element is disabled",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "should_be_checked",
		pattern:     `the element "([^"]+)" should be checked`,
		category:    "Verification",
		description: "Assert that a checkbox is checked",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "should_not_be_checked",
		pattern:     `the element "([^"]+)" should not be checked`,
		category:    "Verification",
		description: "Assert that a checkbox is unchecked",
		params:      []ParameterInfo{selectorParam},
	},
	{
		id:          "should_contain_text",
		pattern:     `the element "([^"]+)" should contain "([^"]+)"`,
		category:    "Verification",
		description: "Assert that an element contains text",
		params:      []ParameterInfo{selectorParam, textParam},
	},
	{
		id:          "should_not_contain_text",
		pattern:     `the element "([^"]+)" should not contain "([^"]+)"`,
		category:    "Verification",
		description: "Assert that an element does not contain text",
		params:      []ParameterInfo{selectorParam, textParam},
	},

	// Text assertions
	{
		id:          "should_see_text",
		pattern:     `I should see text "([^"]+)"`,
		aliases:     []string{`the page should contain "([^"]+)"`},
		category:    "Text",
		description: "Assert that the page contains the given text",
		params:      []ParameterInfo{textParam},
	},
	{
		id:          "should_not_see_text",
		pattern:     `I should not see text "([^"]+)"`,
		aliases:     []string{`the page should not contain "([^"]+)"`},
		category:    "Text",
		description: "Assert that the page does not contain the given text",
		params:      []ParameterInfo{textParam},
	},
	{
		id:          "text_should_be",
		pattern:     `the text of "([^"]+)" should be "([^"]+)"`,
		aliases:     []string{`the text of "([^"]+)" should equal "([^"]+)"`},
		category:    "Text",
		description: "Assert the exact text of an element",
		params:      []ParameterInfo{selectorParam, textParam},
	},
	{
		id:          "text_should_contain",
		pattern:     `the text of "([^"]+)" should contain "([^"]+)"`,
		category:    "Text",
		description: "Assert a substring of an element's text",
		params:      []ParameterInfo{selectorParam, textParam},
	},
	{
		id:          "text_should_match",
		pattern:     `the text of "([^"]+)" should match "([^"]+)"`,
		category:    "Text",
		description: "Assert an element's text against a regex",
		params:      []ParameterInfo{selectorParam, {Name: "regex", Type: "string", Required: true, Description: "Regular expression"}},
	},
	{
		id:          "text_should_start",
		pattern:     `the text of "([^"]+)" should start with "([^"]+)"`,
		category:    "Text",
		description: "Assert the prefix of an element's text",
		params:      []ParameterInfo{selectorParam, textParam},
	},
	{
		id:          "text_should_end",
		pattern:     `the text of "([^"]+)" should end with "([^"]+)"`,
		category:    "Text",
		description: "Assert the suffix of an element's text",
		params:      []ParameterInfo{selectorParam, textParam},
	},

	// Attribute assertions
	{
		id:          "attribute_should_be",
		pattern:     `the "([^"]+)" attribute of "([^"]+)" should be "([^"]+)"`,
		aliases:     []string{`the element "([^"]+)" should have "([^"]+)" attribute set to "([^"]+)"`},
		category:    "Verification",
		description: "Assert an attribute value of an element",
	},
	{
		id:          "attribute_should_contain",
		pattern:     `the "([^"]+)" attribute of "([^"]+)" should contain "([^"]+)"`,
		category:    "Verification",
		description: "Assert a substring of an attribute value",
	},
	{
		id:          "attribute_should_exist",
		pattern:     `the "([^"]+)" attribute of "([^"]+)" should exist`,
		aliases:     []string{`the element "([^"]+)" should have "([^"]+)" attribute`},
		category:    "Verification",
		description: "Assert that an attribute is present",
	},

	// Counting
	{
		id:          "should_see_min_count",
		pattern:     `I should see at least (\d+) ([^ ]+)`,
		aliases:     []string{`I should see minimum (\d+) ([^ ]+)`},
		category:    "Counting",
		description: "Assert a minimum number of matching elements",
		params:      []ParameterInfo{countParam, {Name: "kind", Type: "string", Required: true, Description: "Element kind"}},
	},
	{
		id:          "should_see_max_count",
		pattern:     `I should see at most (\d+) ([^ ]+)`,
		category:    "Counting",
		description: "Assert a maximum number of matching elements",
		params:      []ParameterInfo{countParam, {Name: "kind", Type: "string", Required: true, Description: "Element kind"}},
	},
	{
		id:          "should_see_exact_count",
		pattern:     `I should see exactly (\d+) ([^ ]+)`,
		aliases:     []string{`I should see exactly (\d+) ([^ ]+) elements?`, `there should be (\d+) ([^ ]+)`},
		category:    "Counting",
		description: "Assert an exact number of matching elements",
		params:      []ParameterInfo{countParam, {Name: "kind", Type: "string", Required: true, Description: "Element kind"}},
	},

	// Extraction
	{
		id:          "extract_and_store_all",
		pattern:     `I extract all "([^"]+)" and store them as "([^"]+)"`,
		category:    "Extraction",
		description: "Extract the text of all matching elements into a named list",
		params:      []ParameterInfo{selectorParam, {Name: "key", Type: "string", Required: true, Description: "Name of the stored list"}},
		examples:    []string{`When I extract all ".titleline a" and store them as "titles"`},
	},
	{
		id:          "store_value",
		pattern:     `I store "([^"]+)" as "([^"]+)"`,
		category:    "Extraction",
		description: "Store a literal value under a name",
	},
	{
		id:          "store_element_text",
		pattern:     `I store the text of "([^"]+)" as "([^"]+)"`,
		category:    "Extraction",
		description: "Store the text of an element under a name",
	},

	// Storage
	{
		id:          "clear_local_storage",
		pattern:     `I clear local storage`,
		category:    "Storage",
		description: "Remove all local storage entries",
	},
	{
		id:          "set_local_storage",
		pattern:     `I set local storage item "([^"]+)" to "([^"]+)"`,
		category:    "Storage",
		description: "Set a local storage entry",
	},
	{
		id:          "local_storage_should_contain",
		pattern:     `the local storage should contain "([^"]+)"`,
		category:    "Storage",
		description: "Assert that a local storage key exists",
	},
	{
		id:          "clear_session_storage",
		pattern:     `I clear session storage`,
		category:    "Storage",
		description: "Remove all session storage entries",
	},

	// Conditional
	{
		id:          "retry_click",
		pattern:     `I retry clicking "([^"]+)" up to (\d+) times`,
		aliases:     []string{`I retry "([^"]+)" (\d+) times`},
		category:    "Conditional",
		description: "Retry clicking an element a bounded number of times",
	},
	{
		id:          "browser_available",
		pattern:     `a browser (?:backend )?is available`,
		category:    "Setup",
		description: "Assert the automation backend is ready",
		examples:    []string{`Given a browser is available`},
	},
}

// Default builds the matcher table from the built-in step definitions.
// Each definition registers its primary pattern first, then its aliases, all
// mapping to the same identifier.
func Default() *Registry {
	r := New()
	for _, def := range builtinSteps {
		r.MustRegister(def.pattern, def.id)
		for _, alias := range def.aliases {
			r.MustRegister(alias, def.id)
		}
	}
	return r
}

// DefaultCatalog builds the descriptive catalog for the built-in steps
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, def := range builtinSteps {
		c.Add(StepInfo{
			ID:          def.id,
			Pattern:     def.pattern,
			Aliases:     append([]string(nil), def.aliases...),
			Category:    def.category,
			Description: def.description,
			Parameters:  append([]ParameterInfo(nil), def.params...),
			Examples:    append([]string(nil), def.examples...),
		})
	}
	return c
}
