package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/term"

	"noteapp-client/internal/api"
	"noteapp-client/internal/config"
	"noteapp-client/internal/domain"
	"noteapp-client/internal/editor"
	"noteapp-client/internal/grouping"
	"noteapp-client/internal/notes"
	"noteapp-client/internal/session"
	"noteapp-client/internal/sharing"
	"noteapp-client/pkg/storage"
)

const usageText = `usage: noteapp <command> [options]

commands:
  register                      create an account
  login -email <email>          log in and store the session
  logout                        log out and clear the stored session
  whoami                        show the logged-in user
  list [-sort all|tag|date|alphabet]
  view <note-id>
  create -title <t> [-tags a,b] [-folder f] [-pin] [-markdown file]
  edit <note-id> [-title t] [-tags a,b] [-folder f] [-pin=true|false] [-markdown file]
  delete <note-id>
  tags                          list the tag vocabulary
  folders                       list the folder vocabulary
  share <note-id> <email> [-permission view|edit]
  shares                        list outstanding shares
  revoke <note-id> <share-id>
  upload <file>                 upload a file, print its URL
`

type app struct {
	cfg        *config.Config
	client     *api.Client
	session    *session.Manager
	collection *notes.Collection
	shares     *sharing.Reconciler
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	sess := session.NewManager(client, storage.NewStore(cfg.Storage.StateFile))
	if _, err := sess.Initialize(); err != nil {
		fatal(err)
	}

	a := &app{
		cfg:        cfg,
		client:     client,
		session:    sess,
		collection: notes.NewCollection(client),
		shares:     sharing.NewReconciler(client),
	}

	ctx := context.Background()
	args := os.Args[2:]

	switch os.Args[1] {
	case "register":
		err = a.register(ctx, args)
	case "login":
		err = a.login(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("logged out")
	case "whoami":
		err = a.whoami()
	case "list":
		err = a.list(ctx, args)
	case "view":
		err = a.view(ctx, args)
	case "create":
		err = a.create(ctx, args)
	case "edit":
		err = a.edit(ctx, args)
	case "delete":
		err = a.remove(ctx, args)
	case "tags":
		err = a.vocabulary(ctx, a.collection.TagVocabulary)
	case "folders":
		err = a.vocabulary(ctx, a.collection.FolderVocabulary)
	case "share":
		err = a.share(ctx, args)
	case "shares":
		err = a.listShares(ctx)
	case "revoke":
		err = a.revoke(ctx, args)
	case "upload":
		err = a.upload(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	fs.Parse(args)

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm: ")
	if err != nil {
		return err
	}

	req := &domain.RegisterRequest{
		Name:                 *name,
		Email:                *email,
		Password:             password,
		PasswordConfirmation: confirm,
	}
	if err := a.session.Register(ctx, req); err != nil {
		return err
	}
	fmt.Println("registered; run `noteapp login` to sign in")
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	fs.Parse(args)

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := a.session.Login(ctx, &domain.LoginRequest{Email: *email, Password: password})
	if err != nil {
		return err
	}
	if user != nil {
		fmt.Printf("logged in as %s <%s>\n", user.Name, user.Email)
	} else {
		fmt.Println("logged in")
	}
	return nil
}

func (a *app) whoami() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not logged in")
	}
	if user := a.session.User(); user != nil {
		fmt.Printf("%s <%s>\n", user.Name, user.Email)
	} else {
		fmt.Println("logged in (no cached profile)")
	}
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	sortMode := fs.String("sort", "all", "grouping mode: all, tag, date or alphabet")
	fs.Parse(args)

	if err := a.collection.Refresh(ctx); err != nil {
		return err
	}

	groups := grouping.GroupNotes(a.collection.Notes(), grouping.ParseMode(*sortMode))
	if len(groups) == 0 {
		fmt.Println("no notes")
		return nil
	}
	for _, group := range groups {
		fmt.Println(group.Title)
		for _, n := range group.Notes {
			line := fmt.Sprintf("  [%d] %s", n.ID, n.Title)
			if n.IsPinned {
				line += " *"
			}
			if len(n.Tags) > 0 {
				line += " (" + strings.Join(n.Tags, ", ") + ")"
			}
			fmt.Println(line)
		}
	}
	return nil
}

func (a *app) view(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "note-id")
	if err != nil {
		return err
	}
	note, err := a.collection.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Println(note.Title)
	if len(note.Tags) > 0 {
		fmt.Printf("tags: %s\n", strings.Join(note.Tags, ", "))
	}
	if note.Folder != "" {
		fmt.Printf("folder: %s\n", note.Folder)
	}
	fmt.Printf("updated: %s\n\n", note.ModifiedAt().Format("January 2, 2006 3:04 PM"))
	fmt.Println(note.Content)
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "note title")
	tags := fs.String("tags", "", "comma-separated tags (max 3)")
	folder := fs.String("folder", "", "folder label")
	pin := fs.Bool("pin", false, "pin the note")
	markdown := fs.String("markdown", "", "markdown file for the body, - for stdin")
	fs.Parse(args)

	content, err := a.composeContent(*markdown)
	if err != nil {
		return err
	}

	req := &domain.CreateNoteRequest{
		Title:    *title,
		Content:  content,
		Tags:     splitTags(*tags),
		Folder:   *folder,
		IsPinned: *pin,
	}
	note, err := a.collection.Create(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("created note %d\n", note.ID)
	return nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "note-id")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	title := fs.String("title", "", "note title")
	tags := fs.String("tags", "", "comma-separated tags (max 3)")
	folder := fs.String("folder", "", "folder label")
	pin := fs.Bool("pin", false, "pin the note")
	markdown := fs.String("markdown", "", "markdown file for the body, - for stdin")
	fs.Parse(args[1:])

	existing, err := a.collection.Get(ctx, id)
	if err != nil {
		return err
	}

	// Updates are full replaces; start from the existing note and
	// override only the flags that were actually set.
	req := &domain.UpdateNoteRequest{
		Title:    existing.Title,
		Content:  existing.Content,
		Tags:     existing.Tags,
		Folder:   existing.Folder,
		IsPinned: existing.IsPinned,
	}
	var importErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			req.Title = *title
		case "tags":
			req.Tags = splitTags(*tags)
		case "folder":
			req.Folder = *folder
		case "pin":
			req.IsPinned = *pin
		case "markdown":
			content, err := a.composeContent(*markdown)
			if err != nil {
				importErr = err
				return
			}
			req.Content = content
		}
	})
	if importErr != nil {
		return importErr
	}

	if _, err := a.collection.Update(ctx, id, req); err != nil {
		return err
	}
	fmt.Printf("updated note %d\n", id)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "note-id")
	if err != nil {
		return err
	}
	if err := a.collection.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted note %d\n", id)
	return nil
}

func (a *app) vocabulary(ctx context.Context, derive func() []string) error {
	if err := a.collection.Refresh(ctx); err != nil {
		return err
	}
	for _, value := range derive() {
		fmt.Println(value)
	}
	return nil
}

func (a *app) share(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: noteapp share <note-id> <email> [-permission view|edit]")
	}
	id, err := argID(args, 0, "note-id")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("share", flag.ExitOnError)
	permission := fs.String("permission", string(domain.PermissionView), "view or edit")
	fs.Parse(args[2:])

	a.shares.SetForm(sharing.Form{
		NoteID:     id,
		Email:      args[1],
		Permission: domain.Permission(*permission),
	})
	if err := a.shares.Share(ctx); err != nil {
		return err
	}
	fmt.Printf("shared note %d with %s\n", id, args[1])
	return nil
}

func (a *app) listShares(ctx context.Context) error {
	if err := a.shares.Refresh(ctx); err != nil {
		return err
	}
	shares := a.shares.Shares()
	if len(shares) == 0 {
		fmt.Println("no shares")
		return nil
	}
	for _, s := range shares {
		fmt.Printf("[%d] note %d -> %s (%s) since %s\n",
			s.ID, s.NoteID, s.Email, s.Permission, s.SharedAt.Format("January 2, 2006"))
	}
	return nil
}

func (a *app) revoke(ctx context.Context, args []string) error {
	noteID, err := argID(args, 0, "note-id")
	if err != nil {
		return err
	}
	shareID, err := argID(args, 1, "share-id")
	if err != nil {
		return err
	}
	if err := a.shares.Revoke(ctx, noteID, shareID); err != nil {
		return err
	}
	fmt.Printf("revoked share %d on note %d\n", shareID, noteID)
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: noteapp upload <file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	url, err := a.client.Upload(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}

// composeContent builds the note body through the editor. An empty
// source means an empty body; "-" reads markdown from stdin.
func (a *app) composeContent(source string) (string, error) {
	if source == "" {
		return "", nil
	}

	var raw []byte
	var err error
	if source == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(source)
	}
	if err != nil {
		return "", err
	}

	doc := editor.NewDocument()
	importer := editor.NewMarkdownImporter(a.cfg.Editor.CodeStyle)
	if err := importer.Import(doc, raw); err != nil {
		return "", err
	}
	return doc.Content()
}

func splitTags(s string) domain.TagList {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tags domain.TagList
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func argID(args []string, index int, name string) (int64, error) {
	if len(args) <= index {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	id, err := strconv.ParseInt(args[index], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[index])
	}
	return id, nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pass), nil
}
