package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"clouddrive/api/driveproto"

	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
)

const uploadChunkSize = 64 * 1024

type client struct {
	auth     driveproto.AuthServiceClient
	users    driveproto.UsersServiceClient
	contents driveproto.ContentsServiceClient
	transfer driveproto.FileTransferServiceClient
	codes    driveproto.CodesServiceClient
	plans    driveproto.PlansServiceClient
	subs     driveproto.SubscriptionsServiceClient
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: client [flags] <command> [args]

Commands:
  signup                      create account
  plans                       list plans
  profile                     show profile and usage
  ls [contentId]              list folder (home by default)
  mkdir <name> [parentId]     create folder
  upload <file> [parentId]    upload local file
  download <contentId> <file> download file
  rm <contentId> [--full]     move to trash or delete
  trash                       list trash
  restore <contentId>         restore from trash
  clean                       empty trash
  rename <contentId> <name>   rename file
  activate <code>             activate purchase code
  subscription                show subscription

Flags:
`)
	pflag.PrintDefaults()
}

func main() {
	addr := pflag.String("addr", "localhost:50052", "server address")
	email := pflag.String("email", os.Getenv("DRIVE_EMAIL"), "account email")
	password := pflag.String("password", os.Getenv("DRIVE_PASSWORD"), "account password")
	full := pflag.Bool("full", false, "rm: delete permanently")
	timeout := pflag.Duration("timeout", 5*time.Minute, "call timeout")
	pflag.Usage = usage
	pflag.Parse()

	args := pflag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fail(err)
	}
	defer conn.Close()

	c := &client{
		auth:     driveproto.NewAuthServiceClient(conn),
		users:    driveproto.NewUsersServiceClient(conn),
		contents: driveproto.NewContentsServiceClient(conn),
		transfer: driveproto.NewFileTransferServiceClient(conn),
		codes:    driveproto.NewCodesServiceClient(conn),
		plans:    driveproto.NewPlansServiceClient(conn),
		subs:     driveproto.NewSubscriptionsServiceClient(conn),
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "signup":
		_, err = c.auth.SignUp(ctx, &driveproto.SignUpRequest{Email: *email, Password: *password})
		if err == nil {
			fmt.Println("account created")
		}
	case "plans":
		err = c.listPlans(ctx)
	default:
		// Остальным командам нужен токен
		ctx, err = c.signIn(ctx, *email, *password)
		if err == nil {
			err = c.run(ctx, cmd, rest, *full)
		}
	}
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func (c *client) signIn(ctx context.Context, email, password string) (context.Context, error) {
	resp, err := c.auth.SignIn(ctx, &driveproto.SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+resp.AccessToken), nil
}

func (c *client) run(ctx context.Context, cmd string, args []string, full bool) error {
	switch cmd {
	case "profile":
		return c.profile(ctx)
	case "ls":
		return c.list(ctx, args)
	case "mkdir":
		return c.mkdir(ctx, args)
	case "upload":
		return c.upload(ctx, args)
	case "download":
		return c.download(ctx, args)
	case "rm":
		id, err := argID(args, 0)
		if err != nil {
			return err
		}
		_, err = c.contents.RemoveContent(ctx, &driveproto.RemoveContentRequest{ContentId: id, Full: full})
		return err
	case "trash":
		list, err := c.contents.GetDeletedContents(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		printContents(list)
		return nil
	case "restore":
		id, err := argID(args, 0)
		if err != nil {
			return err
		}
		_, err = c.contents.RecoveryContent(ctx, &driveproto.ContentIdRequest{ContentId: id})
		return err
	case "clean":
		_, err := c.contents.CleanTrashCan(ctx, &emptypb.Empty{})
		return err
	case "rename":
		id, err := argID(args, 0)
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return errors.New("new name is required")
		}
		_, err = c.contents.RenameContent(ctx, &driveproto.RenameContentRequest{ContentId: id, NewName: args[1]})
		return err
	case "activate":
		code, err := argID(args, 0)
		if err != nil {
			return err
		}
		_, err = c.codes.Activate(ctx, &driveproto.ActivateRequest{Code: code})
		return err
	case "subscription":
		sub, err := c.subs.GetMySubscription(ctx, &emptypb.Empty{})
		if err != nil {
			return err
		}
		plan := "-"
		if sub.Plan != nil {
			plan = sub.Plan.Name
		}
		fmt.Printf("%s until %s (active: %t)\n", plan, sub.FinishAt.AsTime().Format(time.DateOnly), sub.IsActive)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func argID(args []string, i int) (int64, error) {
	if len(args) <= i {
		return 0, errors.New("id is required")
	}
	return strconv.ParseInt(args[i], 10, 64)
}

func optionalID(args []string, i int) (*int64, error) {
	if len(args) <= i {
		return nil, nil
	}
	id, err := argID(args, i)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *client) listPlans(ctx context.Context) error {
	list, err := c.plans.GetAll(ctx, &driveproto.GetAllPlansRequest{})
	if err != nil {
		return err
	}
	for _, p := range list.Plans {
		fmt.Printf("%-10s %6d  %12d bytes  %s\n", p.Name, p.Price, p.AvailableQuote, p.Description)
	}
	return nil
}

func (c *client) profile(ctx context.Context) error {
	p, err := c.users.GetProfile(ctx, &emptypb.Empty{})
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\nstorage %d: %d / %d bytes\n", p.Name, p.Email, p.StorageId, p.Used, p.Quota)
	return nil
}

func (c *client) list(ctx context.Context, args []string) error {
	id, err := optionalID(args, 0)
	if err != nil {
		return err
	}
	if id == nil {
		home, err := c.contents.GetSpecialContentId(ctx, &driveproto.SpecialContentRequest{Kind: driveproto.SpecialKind_HOME})
		if err != nil {
			return err
		}
		id = &home.ContentId
	}
	list, err := c.contents.GetChildrenContents(ctx, &driveproto.ChildrenRequest{ContentId: *id, SortBy: driveproto.SortBy_NAME})
	if err != nil {
		return err
	}
	printContents(list)
	return nil
}

func printContents(list *driveproto.ContentList) {
	for _, n := range list.Contents {
		kind := "f"
		if n.Type == driveproto.ContentType_FOLDER {
			kind = "d"
		}
		fmt.Printf("%s %8d %12d  %-11s %s\n", kind, n.Id, n.Size, n.State, n.Path)
	}
}

func (c *client) mkdir(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("folder name is required")
	}
	parent, err := optionalID(args, 1)
	if err != nil {
		return err
	}
	folder, err := c.contents.NewFolder(ctx, &driveproto.NewFolderRequest{ParentId: parent, Name: args[0]})
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%d)\n", folder.Path, folder.Id)
	return nil
}

func (c *client) upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("file path is required")
	}
	parent, err := optionalID(args, 1)
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	profile, err := c.users.GetProfile(ctx, &emptypb.Empty{})
	if err != nil {
		return err
	}

	base := filepath.Base(args[0])
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	name := strings.TrimSuffix(base, filepath.Ext(base))
	started, err := c.transfer.StartReceivingFile(ctx, &driveproto.StartReceivingRequest{
		StorageId: profile.StorageId,
		ParentId:  parent,
		Name:      name,
		Type:      ext,
	})
	if err != nil {
		return err
	}

	stream, err := c.transfer.ReceiveFileChunk(ctx)
	if err != nil {
		return err
	}
	buf := make([]byte, uploadChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			chunk := &driveproto.FileChunk{ContentId: started.ContentId, Data: buf[:n], FilePath: started.FilePath}
			if err := stream.Send(chunk); err != nil {
				return err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if _, err := stream.CloseAndRecv(); err != nil {
		return err
	}

	if _, err := c.transfer.FinishReceivingFile(ctx, &driveproto.ContentIdRequest{ContentId: started.ContentId}); err != nil {
		return err
	}
	fmt.Printf("uploaded %s (%d)\n", started.FilePath, started.ContentId)
	return nil
}

func (c *client) download(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("destination path is required")
	}

	if _, err := c.transfer.SendFileStateChange(ctx, &driveproto.StateChangeRequest{ContentId: id, Action: driveproto.TransferAction_START}); err != nil {
		return err
	}
	stream, err := c.transfer.SendFileChunks(ctx, &driveproto.ContentIdRequest{ContentId: id})
	if err != nil {
		return err
	}

	out, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer out.Close()

	var written int64
	for {
		frame, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		n, err := out.Write(frame.Data)
		if err != nil {
			return err
		}
		written += int64(n)
	}
	fmt.Printf("downloaded %d bytes to %s\n", written, args[1])
	return nil
}
