package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

var avatarTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

const maxAvatarSize = 5 << 20

// Avatar uploads an image as the profile avatar: avatar <file>.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: avatar <file>")
	}

	path := args[0]
	contentType, ok := avatarTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return fmt.Errorf("unsupported image type %q (png, jpeg, gif or webp)", filepath.Ext(path))
	}

	body, err := readFile(path)
	if err != nil {
		return err
	}
	if len(body) > maxAvatarSize {
		return fmt.Errorf("image is larger than %d bytes", maxAvatarSize)
	}

	return a.withAuth(ctx, func(token string) error {
		up, err := a.api.StartAvatarUpload(ctx, token, contentType)
		if err != nil {
			return err
		}
		if err := a.upload(ctx, up.UploadURL, contentType, body); err != nil {
			return err
		}
		if err := a.api.ConfirmAvatar(ctx, token, up.Key); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Avatar updated:", up.AvatarURL)
		return nil
	})
}
