package interview

import "errors"

var errNoProvider = errors.New("no LLM provider configured")
