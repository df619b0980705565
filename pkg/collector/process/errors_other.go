//go:build !unix

package process

func isPermissionErrno(err error) bool {
	return false
}
