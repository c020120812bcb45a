package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/edusign/edusign/internal/quiz"
)

var watchCmd = &cobra.Command{
	Use:   "watch <session-id>",
	Short: "Follow the views of a remote quiz session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		raw, _ := cmd.Flags().GetBool("json")

		u, err := eventsURL(addr, args[0])
		if err != nil {
			return err
		}

		dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
		conn, _, err := dialer.Dial(u, nil)
		if err != nil {
			return fmt.Errorf("connect %s: %w", u, err)
		}
		defer conn.Close()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sig)
		go func() {
			<-sig
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
					errors.Is(err, net.ErrClosed) {
					return nil
				}
				return fmt.Errorf("read: %w", err)
			}
			if raw {
				fmt.Println(string(msg))
				continue
			}
			var v quiz.View
			if err := json.Unmarshal(msg, &v); err != nil {
				return fmt.Errorf("decode view: %w", err)
			}
			fmt.Println(describeView(v))
		}
	},
}

func init() {
	watchCmd.Flags().String("addr", "localhost:3000", "Server address")
	watchCmd.Flags().Bool("json", false, "Print raw JSON views")
}

// eventsURL turns host:port or an http(s) URL into the session's event
// stream URL.
func eventsURL(addr, id string) (string, error) {
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", addr, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws/sessions/" + url.PathEscape(id) + "/events"
	return u.String(), nil
}

// describeView is a one-line rendering of a view.
func describeView(v quiz.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-15s", v.State)
	if v.QuestionTotal > 0 {
		fmt.Fprintf(&b, " q%d/%d", v.QuestionIndex+1, v.QuestionTotal)
	}
	if v.Prompt != "" {
		fmt.Fprintf(&b, " %q", v.Prompt)
	}
	switch v.State {
	case quiz.StateCountdown:
		fmt.Fprintf(&b, " in %d", v.Countdown)
	case quiz.StateRecording:
		fmt.Fprintf(&b, " %ds left, %d frames", v.SecondsLeft, v.FramesCaptured)
	}
	if v.Feedback != nil {
		fmt.Fprintf(&b, " | %s", v.Feedback.Text)
	}
	if v.Notice != "" {
		fmt.Fprintf(&b, " | %s", v.Notice)
	}
	fmt.Fprintf(&b, " score=%d", v.Score)
	if v.Summary != nil {
		fmt.Fprintf(&b, " final=%d/%d", v.Summary.Score, v.Summary.Total)
	}
	return b.String()
}
