package errors

import "os"

func isNotExist(err error) bool {
	return os.IsNotExist(err)
}

func isPermission(err error) bool {
	return os.IsPermission(err)
}
