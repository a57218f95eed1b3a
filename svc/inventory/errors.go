package inventory

import "errors"

var ErrItemNotFound = errors.New("store item not found")
