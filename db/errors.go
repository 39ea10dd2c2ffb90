package db

import "errors"

var ErrRunNotFound = errors.New("search run not found")
