package quickdev

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/server/models"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	gs "github.com/Mal-back/cal-tracker/internal/server/grpc"
)

type Options struct {
	BaseURL  string
	GRPCAddr string
	Username string
	In       *bufio.Reader
	Out      io.Writer
}

// Run logs in, checks the session, does a meal round trip, optionally calls
// WhoAmI over gRPC with the current token and logs out.
func Run(ctx context.Context, opts Options) error {
	c, err := NewClient(opts.BaseURL)
	if err != nil {
		return err
	}

	username := opts.Username
	if username == "" {
		if username, err = GetSimpleText(opts.In, "Username", opts.Out); err != nil {
			return err
		}
	}

	pwd, err := GetPassword(opts.Out)
	if err != nil {
		return err
	}
	err = c.Login(ctx, username, string(pwd))
	common.WipeByteArray(pwd)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Fprintln(opts.Out, "logged in")

	me, err := c.WhoAmI(ctx)
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	fmt.Fprintf(opts.Out, "user id=%d username=%s age=%d size_cm=%d weight=%g\n", me.ID, me.Username, me.Age, me.SizeCm, me.Weight)

	meal, err := c.CreateMeal(ctx, models.MealForCreate{
		Name:     "quickdev-" + uuid.NewString()[:8],
		Kcal:     420,
		Carbs:    50,
		Proteins: 20,
		Lipids:   12,
	})
	if err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	fmt.Fprintf(opts.Out, "created meal id=%d name=%s\n", meal.ID, meal.Name)

	list, err := c.ListMeals(ctx)
	if err != nil {
		return fmt.Errorf("list meals: %w", err)
	}
	fmt.Fprintf(opts.Out, "meals: %d\n", len(list))

	if err := c.DeleteMeal(ctx, meal.ID); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	fmt.Fprintf(opts.Out, "deleted meal id=%d\n", meal.ID)

	if opts.GRPCAddr != "" {
		if err := grpcWhoAmI(ctx, opts.GRPCAddr, c.Token(), opts.Out); err != nil {
			return fmt.Errorf("grpc whoami: %w", err)
		}
	}

	out, err := c.Logout(ctx)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Fprintf(opts.Out, "logout=%t\n", out)
	return nil
}

func grpcWhoAmI(ctx context.Context, addr, token string, w io.Writer) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx = metadata.AppendToOutgoingContext(ctx, common.AuthTokenName, token)
	me, err := gs.NewAuthClient(conn).WhoAmI(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "grpc user=%s\n", me.GetFields()["username"].GetStringValue())
	return nil
}
