package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Whoami(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Accounts(ctx context.Context) error {
	f.calls = append(f.calls, "accounts")
	return nil
}
func (f *fakeExec) SetName(ctx context.Context) error {
	f.calls = append(f.calls, "setname")
	return nil
}
func (f *fakeExec) SetAvatar(ctx context.Context, rawURL string) error {
	f.calls = append(f.calls, "avatar")
	f.args = append(f.args, rawURL)
	return nil
}
func (f *fakeExec) Heading(ctx context.Context, text string) error {
	f.calls = append(f.calls, "heading")
	f.args = append(f.args, text)
	return nil
}
func (f *fakeExec) Content(ctx context.Context) error {
	f.calls = append(f.calls, "content")
	return nil
}
func (f *fakeExec) Image(ctx context.Context, rawURL string) error {
	f.calls = append(f.calls, "image")
	f.args = append(f.args, rawURL)
	return nil
}
func (f *fakeExec) Upload(ctx context.Context, path string) error {
	f.calls = append(f.calls, "upload")
	f.args = append(f.args, path)
	return nil
}
func (f *fakeExec) Show(ctx context.Context) error {
	f.calls = append(f.calls, "show")
	return nil
}
func (f *fakeExec) Save(ctx context.Context) error {
	f.calls = append(f.calls, "save")
	return nil
}
func (f *fakeExec) Publish(ctx context.Context) error {
	f.calls = append(f.calls, "publish")
	return nil
}
func (f *fakeExec) List(ctx context.Context) error {
	f.calls = append(f.calls, "list")
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"heading My first article",
		"content",
		"image https://cdn.example.com/a.png",
		"save",
		"publish",
		"l",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "heading", "content", "image", "save", "publish", "list"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_PassesRestOfLine(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"heading  A Heading With  Spaces",
		"image https://example.com/pic.jpg",
		"upload /tmp/photo.png",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	want := []string{"A Heading With  Spaces", "https://example.com/pic.jpg", "/tmp/photo.png"}
	if len(exec.args) != len(want) {
		t.Fatalf("args: got %v, want %v", exec.args, want)
	}
	for i := range want {
		if exec.args[i] != want[i] {
			t.Fatalf("arg %d: got %q, want %q", i, exec.args[i], want[i])
		}
	}
}

func TestRunREPL_EOFAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("\nquit\npublish\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
