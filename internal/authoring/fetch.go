package authoring

import (
	"context"
	"fmt"
	"os"

	getter "github.com/hashicorp/go-getter"
)

// Fetch makes src available on the local filesystem. Existing local paths are
// returned unchanged; anything else (git::, https://, s3::, file::) is
// downloaded into dst with go-getter and dst is returned.
func Fetch(ctx context.Context, src, dst string) (string, error) {
	if _, err := os.Stat(src); err == nil {
		return src, nil
	}
	pwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeAny,
	}
	loggerFrom(ctx).Info("fetching layout", "src", src, "dst", dst)
	if err := client.Get(); err != nil {
		return "", fmt.Errorf("fetch %s: %w", src, err)
	}
	return dst, nil
}
