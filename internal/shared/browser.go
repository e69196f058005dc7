package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// TMDBWebURL is the public site used for "open in browser" links.
const TMDBWebURL = "https://www.themoviedb.org"

var getRuntime = func() string { return runtime.GOOS }

// TitleURL returns the themoviedb.org page for a title, e.g. https://www.themoviedb.org/movie/27205.
func TitleURL(kind string, id int) string {
	return fmt.Sprintf("%s/%s/%d", TMDBWebURL, kind, id)
}

// browserCommand resolves the launcher for the current platform.
func browserCommand(url string) (string, []string, error) {
	switch rt := getRuntime(); rt {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", rt)
	}
}

// OpenBrowser opens the default system browser to the specified URL without waiting for it to exit.
func OpenBrowser(url string) error {
	name, args, err := browserCommand(url)
	if err != nil {
		return err
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
