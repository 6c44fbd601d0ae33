package handler_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"clouddrive/api/driveproto"
	"clouddrive/internal/blobstore"
	"clouddrive/internal/handler/authHandler"
	"clouddrive/internal/handler/billingHandler"
	"clouddrive/internal/handler/contentHandler"
	"clouddrive/internal/handler/transferHandler"
	"clouddrive/internal/handler/userHandler"
	"clouddrive/internal/repository/BlackListRepo"
	"clouddrive/internal/repository/memoryRepo"
	"clouddrive/internal/repository/planCache"
	"clouddrive/internal/repository/refreshToken"
	"clouddrive/internal/repository/uploadSession"
	"clouddrive/internal/service/accessService"
	"clouddrive/internal/service/authService"
	"clouddrive/internal/service/contentService"
	"clouddrive/internal/service/planService"
	"clouddrive/internal/service/quotaService"
	"clouddrive/internal/service/subscriptionService"
	"clouddrive/internal/service/transferService"
	"clouddrive/internal/service/userService"
	"clouddrive/pkg/logger"
	"clouddrive/pkg/metrics"
	"clouddrive/pkg/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
)

type clients struct {
	auth     driveproto.AuthServiceClient
	users    driveproto.UsersServiceClient
	contents driveproto.ContentsServiceClient
	transfer driveproto.FileTransferServiceClient
	codes    driveproto.CodesServiceClient
	plans    driveproto.PlansServiceClient
	subs     driveproto.SubscriptionsServiceClient
}

func startServer(t *testing.T) clients {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db := memoryRepo.New()
	blobs := blobstore.NewFSStore(afero.NewMemMapFs())
	m := metrics.New(prometheus.NewRegistry())

	quota := quotaService.New(db.Storages())
	guard := accessService.New(db.Storages(), db.Contents())
	plans := planService.New(db.Plans(), planCache.New(rdb), time.Minute, 3)
	require.NoError(t, plans.Seed(ctx))

	auth := authService.New(
		authService.Repositories{Users: db.Users(), Storages: db.Storages(), Contents: db.Contents(), Tx: db},
		plans, "e2e-secret", refreshToken.New(rdb), BlackListRepo.NewBlackListRepo(rdb),
	)
	contents := contentService.New(db.Contents(), guard, quota, db, blobs)
	transfer := transferService.New(db.Contents(), uploadSession.New(rdb), guard, quota, contents, db, blobs, m,
		transferService.Options{ChunkSize: 8})
	subs := subscriptionService.New(db.Codes(), db.Plans(), db.Subscriptions(), guard, quota, db)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(middleware.ServerOptions(auth, driveproto.PublicMethods(), logger.NewNop(), m)...)
	driveproto.RegisterAuthServiceServer(srv, authHandler.New(auth))
	driveproto.RegisterUsersServiceServer(srv, userHandler.New(userService.New(db.Users(), guard)))
	driveproto.RegisterContentsServiceServer(srv, contentHandler.New(contents))
	driveproto.RegisterFileTransferServiceServer(srv, transferHandler.New(transfer))
	driveproto.RegisterCodesServiceServer(srv, billingHandler.NewCodes(subs))
	driveproto.RegisterPlansServiceServer(srv, billingHandler.NewPlans(plans))
	driveproto.RegisterSubscriptionsServiceServer(srv, billingHandler.NewSubscriptions(subs))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return clients{
		auth:     driveproto.NewAuthServiceClient(conn),
		users:    driveproto.NewUsersServiceClient(conn),
		contents: driveproto.NewContentsServiceClient(conn),
		transfer: driveproto.NewFileTransferServiceClient(conn),
		codes:    driveproto.NewCodesServiceClient(conn),
		plans:    driveproto.NewPlansServiceClient(conn),
		subs:     driveproto.NewSubscriptionsServiceClient(conn),
	}
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func TestPublicAndProtectedMethods(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	plans, err := c.plans.GetAll(ctx, &driveproto.GetAllPlansRequest{})
	require.NoError(t, err)
	require.Len(t, plans.Plans, 3)
	assert.Equal(t, "Basic", plans.Plans[0].Name)

	_, err = c.users.GetProfile(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.users.GetProfile(withToken(ctx, "garbage"), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.auth.SignUp(ctx, &driveproto.SignUpRequest{Email: "bad", Password: "secret1"})
	assert.Equal(t, codes.Unknown, status.Code(err))
}

func TestAuthFlow(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	signUp, err := c.auth.SignUp(ctx, &driveproto.SignUpRequest{Email: "e2e@drive.io", Password: "secret1", Name: "e2e"})
	require.NoError(t, err)
	assert.NotZero(t, signUp.UserId)

	_, err = c.auth.SignIn(ctx, &driveproto.SignInRequest{Email: "e2e@drive.io", Password: "wrong1"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	signIn, err := c.auth.SignIn(ctx, &driveproto.SignInRequest{Email: "e2e@drive.io", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, signUp.UserId, signIn.UserId)

	refreshed, err := c.auth.RefreshToken(ctx, &driveproto.RefreshTokenRequest{UserId: signIn.UserId, RefreshToken: signIn.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, signIn.RefreshToken, refreshed.RefreshToken)

	authed := withToken(ctx, refreshed.AccessToken)
	profile, err := c.users.GetProfile(authed, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "e2e@drive.io", profile.Email)
	assert.Equal(t, int64(52428800), profile.Quota)

	_, err = c.auth.Logout(authed, &emptypb.Empty{})
	require.NoError(t, err)

	_, err = c.users.GetProfile(authed, &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestFileLifecycle(t *testing.T) {
	c := startServer(t)
	tokens, err := c.auth.SignUp(context.Background(), &driveproto.SignUpRequest{Email: "files@drive.io", Password: "secret1"})
	require.NoError(t, err)
	ctx := withToken(context.Background(), tokens.AccessToken)

	profile, err := c.users.GetProfile(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	home, err := c.contents.GetSpecialContentId(ctx, &driveproto.SpecialContentRequest{Kind: driveproto.SpecialKind_HOME})
	require.NoError(t, err)

	folder, err := c.contents.NewFolder(ctx, &driveproto.NewFolderRequest{ParentId: &home.ContentId, Name: "docs"})
	require.NoError(t, err)
	assert.Equal(t, "home/docs", folder.Path)
	assert.Equal(t, driveproto.ContentType_FOLDER, folder.Type)

	_, err = c.contents.NewFolder(ctx, &driveproto.NewFolderRequest{ParentId: &home.ContentId, Name: "docs"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	started, err := c.transfer.StartReceivingFile(ctx, &driveproto.StartReceivingRequest{
		StorageId: profile.StorageId, ParentId: &folder.Id, Name: "notes", Type: "txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "home/docs/notes.txt", started.FilePath)

	payload := []byte("the quick brown fox jumps over the lazy dog")
	up, err := c.transfer.ReceiveFileChunk(ctx)
	require.NoError(t, err)
	require.NoError(t, up.Send(&driveproto.FileChunk{ContentId: started.ContentId, Data: payload[:20], FilePath: started.FilePath}))
	require.NoError(t, up.Send(&driveproto.FileChunk{ContentId: started.ContentId, Data: payload[20:], FilePath: started.FilePath}))
	ok, err := up.CloseAndRecv()
	require.NoError(t, err)
	assert.True(t, ok.Ok)

	_, err = c.transfer.FinishReceivingFile(ctx, &driveproto.ContentIdRequest{ContentId: started.ContentId})
	require.NoError(t, err)

	_, err = c.transfer.SendFileStateChange(ctx, &driveproto.StateChangeRequest{ContentId: started.ContentId, Action: driveproto.TransferAction_START})
	require.NoError(t, err)

	down, err := c.transfer.SendFileChunks(ctx, &driveproto.ContentIdRequest{ContentId: started.ContentId})
	require.NoError(t, err)
	var got bytes.Buffer
	frames := 0
	for {
		frame, err := down.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, "notes.txt", frame.FileName)
		assert.Equal(t, int64(len(payload)), frame.TotalSize)
		got.Write(frame.Data)
		frames++
	}
	assert.Equal(t, payload, got.Bytes())
	assert.Equal(t, 6, frames)

	children, err := c.contents.GetChildrenContents(ctx, &driveproto.ChildrenRequest{ContentId: folder.Id, SortBy: driveproto.SortBy_NAME})
	require.NoError(t, err)
	require.Len(t, children.Contents, 1)
	assert.Equal(t, int64(len(payload)), children.Contents[0].Size)
	assert.Equal(t, "Ready", children.Contents[0].State)

	_, err = c.contents.RenameContent(ctx, &driveproto.RenameContentRequest{ContentId: folder.Id, NewName: "x"})
	assert.Equal(t, codes.Aborted, status.Code(err))

	_, err = c.contents.RenameContent(ctx, &driveproto.RenameContentRequest{ContentId: started.ContentId, NewName: "todo.txt"})
	require.NoError(t, err)

	_, err = c.contents.RemoveContent(ctx, &driveproto.RemoveContentRequest{ContentId: folder.Id})
	require.NoError(t, err)

	deleted, err := c.contents.GetDeletedContents(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Len(t, deleted.Contents, 2)

	_, err = c.contents.RecoveryContent(ctx, &driveproto.ContentIdRequest{ContentId: folder.Id})
	require.NoError(t, err)

	all, err := c.contents.GetContentsFromStorage(ctx, &driveproto.StorageRequest{StorageId: profile.StorageId})
	require.NoError(t, err)
	assert.Len(t, all.Contents, 3)

	_, err = c.contents.RemoveContent(ctx, &driveproto.RemoveContentRequest{ContentId: folder.Id, Full: true})
	require.NoError(t, err)

	_, err = c.contents.CleanTrashCan(ctx, &emptypb.Empty{})
	require.NoError(t, err)

	profile, err = c.users.GetProfile(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Zero(t, profile.Used)

	_, err = c.contents.RemoveContent(ctx, &driveproto.RemoveContentRequest{ContentId: home.ContentId})
	assert.Equal(t, codes.Aborted, status.Code(err))
}

func TestBillingErrors(t *testing.T) {
	c := startServer(t)
	tokens, err := c.auth.SignUp(context.Background(), &driveproto.SignUpRequest{Email: "pay@drive.io", Password: "secret1"})
	require.NoError(t, err)
	ctx := withToken(context.Background(), tokens.AccessToken)

	_, err = c.subs.GetMySubscription(ctx, &emptypb.Empty{})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.codes.Activate(ctx, &driveproto.ActivateRequest{Code: 123456})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
