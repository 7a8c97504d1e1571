package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nannuru/publisher/internal/apperr"
	"github.com/nannuru/publisher/internal/client/models"
)

// Heading sets the draft heading. Text beyond the limit is rejected as a
// whole rather than clipped, so the user can rephrase instead of discovering
// a silently truncated title later.
func (a *App) Heading(ctx context.Context, text string) error {
	if text == "" {
		var err error
		text, err = GetSimpleText(a.reader, "Heading", a.out)
		if err != nil {
			return err
		}
	}
	if !a.authoring.SetHeading(text) {
		fmt.Fprintf(a.out, "Heading is too long (%d characters, max %d). Not applied.\n",
			len([]rune(text)), models.HeadingMaxLen)
		return nil
	}
	fmt.Fprintln(a.out, "Heading set.")
	return nil
}

func (a *App) Content(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Article content", a.out)
	if err != nil {
		return err
	}
	a.authoring.SetContent(text)
	fmt.Fprintln(a.out, "Content set.")
	return nil
}

func (a *App) Image(ctx context.Context, rawURL string) error {
	if rawURL == "" {
		var err error
		rawURL, err = GetSimpleText(a.reader, "Image URL", a.out)
		if err != nil {
			return err
		}
	}
	if err := a.authoring.SetImageURL(rawURL); err != nil {
		fmt.Fprintln(a.out, "That does not look like a valid absolute URL.")
		return err
	}
	fmt.Fprintln(a.out, "Image URL set.")
	return nil
}

// Upload reads a local file and pushes it to object storage; on success the
// draft's image URL points at the uploaded object.
func (a *App) Upload(ctx context.Context, path string) error {
	if path == "" {
		var err error
		path, err = GetSimpleText(a.reader, "Image file path", a.out)
		if err != nil {
			return err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "Could not read %s: %v\n", path, err)
		return err
	}

	url, err := a.authoring.UploadImage(ctx, filepath.Base(path), data)
	if err != nil {
		fmt.Fprintf(a.out, "Upload failed: %v\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Uploaded. Image URL: %s\n", url)
	return nil
}

func (a *App) Show(ctx context.Context) error {
	d := a.authoring.Draft()
	fmt.Fprintf(a.out, "Heading:  %s\n", orNone(d.Heading))
	fmt.Fprintf(a.out, "Image:    %s\n", orNone(d.ImageURL))
	fmt.Fprintf(a.out, "Date:     %s\n", d.CreatedDate)
	fmt.Fprintln(a.out, "Content:")
	if strings.TrimSpace(d.Content) == "" {
		fmt.Fprintln(a.out, "  (empty)")
	} else {
		for _, line := range strings.Split(d.Content, "\n") {
			fmt.Fprintf(a.out, "  %s\n", line)
		}
	}
	return nil
}

func (a *App) Save(ctx context.Context) error {
	if err := a.authoring.SaveLocally(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not save the draft locally: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Draft saved.")
	return nil
}

func (a *App) Publish(ctx context.Context) error {
	st := a.session.State()

	art, err := a.authoring.Publish(ctx, st.Identity)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "Published %q (id %s).\n", art.Heading, art.ID)
		return nil
	case errors.Is(err, apperr.ErrUnauthorized):
		fmt.Fprintln(a.out, "You need to sign in before publishing.")
	case errors.Is(err, apperr.ErrValidation):
		fmt.Fprintf(a.out, "The draft is not ready to publish: %v\n", err)
	case errors.Is(err, apperr.ErrBackend):
		fmt.Fprintln(a.out, "Publishing failed on the backend; the draft is untouched. Try again later.")
	default:
		fmt.Fprintf(a.out, "Publishing failed: %v\n", err)
	}
	return err
}

func (a *App) List(ctx context.Context) error {
	st := a.session.State()
	if !st.Present {
		fmt.Fprintln(a.out, "Sign in to list your articles.")
		return nil
	}

	arts, err := a.articles.Refresh(ctx, st.Identity.ID)
	if err != nil {
		arts = a.articles.Cached()
		fmt.Fprintf(a.out, "Could not refresh from the backend (%v); showing the last known list.\n", err)
	}
	if len(arts) == 0 {
		fmt.Fprintln(a.out, "No published articles yet.")
		return nil
	}
	for _, art := range arts {
		fmt.Fprintf(a.out, "%s  %s  %s\n", art.CreatedAt.Local().Format("2006-01-02"), art.ID, art.Heading)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
