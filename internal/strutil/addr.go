package strutil

const defaultAddress = "0.0.0.0"

// NormalizeAddress prepends the wildcard address when only a port is given (":7878").
func NormalizeAddress(addr string) string {
	if len(addr) == 0 {
		return addr
	}

	if addr[0] == ':' {
		addr = defaultAddress + addr
	}

	return addr
}
