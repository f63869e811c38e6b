//go:build !unix

package tsnet

func rawRead(fd int, p []byte) (int, error) {
	return 0, errUnsupportedPlatform
}

func rawWrite(fd int, p []byte) (int, error) {
	return 0, errUnsupportedPlatform
}

func closeFD(fd int) error {
	return errUnsupportedPlatform
}

func isSoftIOError(err error) bool {
	return false
}
