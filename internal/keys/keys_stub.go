//go:build !linux

package keys

func lookupName(name string) (Code, bool) {
	return 0, false
}

func codeName(c Code) (string, bool) {
	return "", false
}
