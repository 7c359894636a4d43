package service_test

import "strconv"

func fieldName(prefix string, n int) string { return prefix + strconv.Itoa(n) }
