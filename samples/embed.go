// Package samples embeds the example test payload offered by the submit panel.
package samples

import _ "embed"

//go:embed mock_test_mini.json
var MockTest []byte
