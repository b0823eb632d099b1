package colony

import "os"

func writeCorrupt(path string) error {
	return os.WriteFile(path, []byte("corrupt"), 0o600)
}
