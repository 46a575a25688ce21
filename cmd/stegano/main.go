// stegano hides text in the least significant bits of an image.
//
// Usage:
//
//	stegano hide [-v] <input> <output> <secret>
//	stegano reveal [-v] [-raw] <image>
//	stegano capacity [-json] <image>
//	stegano compare <cover> <stego>
//
// Images may be given as file paths or http(s) URLs. Output images are
// written as PNG, BMP or TIFF depending on the output extension.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/yyyoichi/stegano"
	"github.com/yyyoichi/stegano/internal/imageio"
)

const cacheDirEnv = "STEGANO_CACHE_DIR"

var errUsage = errors.New("usage error")

func main() {
	log.SetFlags(0)
	log.SetPrefix("stegano: ")
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout))
}

func run(ctx context.Context, args []string, stdout io.Writer) int {
	if len(args) < 1 {
		printUsage(os.Stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "hide":
		err = runHide(ctx, args[1:], stdout)
	case "reveal":
		err = runReveal(ctx, args[1:], stdout)
	case "capacity":
		err = runCapacity(ctx, args[1:], stdout)
	case "compare":
		err = runCompare(ctx, args[1:], stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		log.Printf("unknown command %q", args[0])
		printUsage(os.Stderr)
		return 2
	}
	return report(err)
}

// report logs err and maps it to an exit code.
func report(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		if !errors.Is(err, flag.ErrHelp) {
			log.Println(err)
		}
		return 2
	case errors.Is(err, stegano.ErrCapacityExceeded):
		log.Println(`--> /!\ The secret string exceeds the maximum length supported by the image.`)
		log.Println(err)
	case errors.Is(err, stegano.ErrCorruptImage):
		log.Println("--> Unable to recover a message, the image seems corrupted or does not contain a valid secret.")
		log.Println(err)
	default:
		log.Println(err)
	}
	return 1
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  stegano hide [-v] <input> <output> <secret>   hide a secret in an image
  stegano reveal [-v] [-raw] <image>            print the secret hidden in an image
  stegano capacity [-json] <image>              report how much text an image can hold
  stegano compare <cover> <stego>               measure the distortion of a stego image

Images may be file paths or http(s) URLs. Output images are written as
PNG, BMP or TIFF depending on the extension of <output>.

Common flags:
  -v            verbose logging
  -cache-dir    directory for downloaded images (default $`+cacheDirEnv+`)
`)
}

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	verbose  bool
	cacheDir string
}

func newFlagSet(name string, c *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.BoolVar(&c.verbose, "v", false, "verbose logging")
	fs.StringVar(&c.cacheDir, "cache-dir", defaultCacheDir(), "directory for downloaded images")
	return fs
}

func (c commonFlags) logger() *log.Logger {
	if !c.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "stegano: ", log.Lmicroseconds)
}

func (c commonFlags) loader() *imageio.Loader {
	return imageio.NewLoader(c.cacheDir)
}

func defaultCacheDir() string {
	if dir := os.Getenv(cacheDirEnv); dir != "" {
		return dir
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "stegano")
	}
	return filepath.Join(os.TempDir(), "stegano")
}

func parse(fs *flag.FlagSet, args []string, names ...string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != len(names) {
		return nil, fmt.Errorf("%w: %s expects %d arguments %v, got %d", errUsage, fs.Name(), len(names), names, fs.NArg())
	}
	return fs.Args(), nil
}
