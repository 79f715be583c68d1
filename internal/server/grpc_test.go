package server

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func dialBufconn(t *testing.T, srv *grpc.Server) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGRPCHealth(t *testing.T) {
	srv, hs := NewGRPCServer("secret")
	client := healthpb.NewHealthClient(dialBufconn(t, srv))
	ctx := context.Background()

	for _, svc := range []string{"", PortfolioServiceName} {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: svc})
		if err != nil {
			t.Fatalf("Check(%q): %v", svc, err)
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("Check(%q) = %v", svc, resp.GetStatus())
		}
	}

	hs.SetServingStatus(PortfolioServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: PortfolioServiceName})
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status = %v after drain", resp.GetStatus())
	}
}

func TestGRPCReflectionRequiresToken(t *testing.T) {
	srv, _ := NewGRPCServer("secret")
	client := reflectionpb.NewServerReflectionClient(dialBufconn(t, srv))

	listServices := func(ctx context.Context) (*reflectionpb.ServerReflectionResponse, error) {
		stream, err := client.ServerReflectionInfo(ctx)
		if err != nil {
			return nil, err
		}
		req := &reflectionpb.ServerReflectionRequest{
			MessageRequest: &reflectionpb.ServerReflectionRequest_ListServices{ListServices: "*"},
		}
		// A rejected stream reports io.EOF on Send; Recv carries the status.
		if err := stream.Send(req); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return stream.Recv()
	}

	if _, err := listServices(context.Background()); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("without token: code = %v (err %v)", status.Code(err), err)
	}

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer secret")
	resp, err := listServices(ctx)
	if err != nil {
		t.Fatalf("with token: %v", err)
	}
	var found bool
	for _, svc := range resp.GetListServicesResponse().GetService() {
		if svc.GetName() == healthpb.Health_ServiceDesc.ServiceName {
			found = true
		}
	}
	if !found {
		t.Errorf("health service not listed: %v", resp)
	}
}
