package mailer_test

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/account/adapters/mailer"
	"portfolio/internal/account/domain/services"
)

// smtpServer - минимальный SMTP-сервер на 127.0.0.1: принимает любые письма
// и запоминает их тела.
type smtpServer struct {
	listener net.Listener

	mu       sync.Mutex
	messages []string
}

func startSMTPServer(t *testing.T) *smtpServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &smtpServer{listener: listener}
	go server.serve()
	t.Cleanup(func() { _ = listener.Close() })

	return server
}

func (s *smtpServer) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *smtpServer) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func (s *smtpServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *smtpServer) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

	reader := bufio.NewReader(conn)
	reply := func(lines ...string) {
		for _, line := range lines {
			_, _ = io.WriteString(conn, line+"\r\n")
		}
	}

	reply("220 localhost ESMTP")
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		command := strings.ToUpper(strings.TrimSpace(line))

		switch {
		case strings.HasPrefix(command, "EHLO"), strings.HasPrefix(command, "HELO"):
			reply("250-localhost", "250-AUTH PLAIN", "250 8BITMIME")
		case strings.HasPrefix(command, "AUTH"):
			reply("235 2.7.0 Authentication successful")
		case command == "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var body strings.Builder
			for {
				dataLine, err := reader.ReadString('\n')
				if err != nil {
					return
				}
				if dataLine == ".\r\n" {
					break
				}
				body.WriteString(dataLine)
			}
			s.mu.Lock()
			s.messages = append(s.messages, body.String())
			s.mu.Unlock()
			reply("250 2.0.0 Ok: queued")
		case command == "QUIT":
			reply("221 2.0.0 Bye")
			return
		default:
			reply("250 2.0.0 Ok")
		}
	}
}

func localSMTPConfig(port int) mailer.Config {
	return mailer.Config{
		Host:      "127.0.0.1",
		Port:      port,
		AuthType:  "plain",
		Username:  "user",
		Password:  "secret",
		TLSPolicy: mailer.TLSPolicyNone,
		Timeout:   5 * time.Second,
	}
}

func TestSMTPNotifier_RealClient(t *testing.T) {
	ctx := testContext()

	t.Run("письмо доходит до сервера", func(t *testing.T) {
		server := startSMTPServer(t)
		notifier := mailer.NewSMTPNotifier(mailer.NewClientFactory(localSMTPConfig(server.port())), "noreply@example.com")

		err := notifier.Send(ctx, services.Message{To: "a@x.com", Subject: "Reset", Body: "reset link"})
		require.NoError(t, err)

		messages := server.received()
		require.Len(t, messages, 1)
		assert.Contains(t, messages[0], "a@x.com")
		assert.Contains(t, messages[0], "reset link")
	})

	t.Run("параллельные отправки не мешают друг другу", func(t *testing.T) {
		server := startSMTPServer(t)
		notifier := mailer.NewSMTPNotifier(mailer.NewClientFactory(localSMTPConfig(server.port())), "noreply@example.com")

		const senders = 20
		var wg sync.WaitGroup
		errs := make(chan error, senders)
		for i := 0; i < senders; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- notifier.Send(ctx, services.Message{
					To:      fmt.Sprintf("user%d@x.com", i),
					Subject: "Reset",
					Body:    fmt.Sprintf("link %d", i),
				})
			}(i)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}

		messages := server.received()
		require.Len(t, messages, senders)
		all := strings.Join(messages, "\n")
		for i := 0; i < senders; i++ {
			assert.Contains(t, all, fmt.Sprintf("user%d@x.com", i))
		}
	})

	t.Run("сервер недоступен", func(t *testing.T) {
		server := startSMTPServer(t)
		port := server.port()
		require.NoError(t, server.listener.Close())

		notifier := mailer.NewSMTPNotifier(mailer.NewClientFactory(localSMTPConfig(port)), "noreply@example.com")
		err := notifier.Send(ctx, services.Message{To: "a@x.com", Subject: "s", Body: "b"})
		assert.Error(t, err)
	})
}
