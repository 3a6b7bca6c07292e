package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"support_chat_client/internal/config"
	"support_chat_client/internal/dao/localstore"
	"support_chat_client/internal/dto/request"
	"support_chat_client/internal/dto/respond"
	"support_chat_client/internal/gateway/websocket"
	"support_chat_client/internal/service/admin"

	"github.com/spf13/cobra"
)

// consoleUI 运营端视图的终端实现
type consoleUI struct{}

func (consoleUI) Alert(msg string) {
	fmt.Printf("!! %s\n", msg)
}

func (consoleUI) RenderQueue(sessions []respond.SessionRespond) {
	if len(sessions) == 0 {
		fmt.Println("-- No sessions in queue")
		return
	}
	fmt.Println("-- Queue:")
	for _, s := range sessions {
		fmt.Printf("   [%s] %s <%s> %s  %s\n",
			s.SessionId, s.ClientInfo.Name, s.ClientInfo.Email, s.ClientInfo.Phone, s.CreatedAt)
	}
}

func (consoleUI) RenderActive(sessions []respond.SessionRespond) {
	if len(sessions) == 0 {
		fmt.Println("-- No active chats")
		return
	}
	fmt.Println("-- Active chats:")
	for _, s := range sessions {
		fmt.Printf("   [%s] %s <%s>\n", s.SessionId, s.ClientInfo.Name, s.ClientInfo.Email)
	}
}

func (consoleUI) UpdateQueueCount(n int) {
	fmt.Printf("-- queue: %d pending\n", n)
}

func (consoleUI) OpenChat(sessionId string, info respond.ClientInfoRespond) {
	fmt.Printf("== Chat with %s (%s • %s) [%s]\n", info.Name, info.Email, info.Phone, sessionId)
}

func (consoleUI) AppendMessage(sessionId, sender, content string) {
	fmt.Printf("[%s] %s\n", sender, content)
}

func (consoleUI) CloseChat() {
	fmt.Println("== Chat closed")
}

// newAdminCmd 运营端控制台入口
// 存在有效的本地令牌时自动恢复登录，否则等待 login/register 命令
func newAdminCmd(conf *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "运营端控制台",
		RunE: func(cmd *cobra.Command, args []string) error {
			console := admin.NewConsole(admin.Config{
				ApiUrl: conf.MainConfig.ApiUrl,
				WsUrl:  conf.MainConfig.WsUrl,
				Policy: websocket.ReconnectPolicy{
					Enabled:     conf.ReconnectConfig.Enabled,
					Delay:       conf.ReconnectConfig.ReconnectDelay(),
					MaxDelay:    conf.ReconnectConfig.ReconnectMaxDelay(),
					MaxAttempts: conf.ReconnectConfig.MaxAttempts,
				},
				Tokens: localstore.NewTokenStore(conf.TokenConfig.StorePath),
				UI:     consoleUI{},
			})

			ctx := context.Background()
			if ok, err := console.Resume(ctx); err != nil {
				fmt.Printf("!! %s\n", errorMessage(err))
			} else if ok {
				fmt.Printf("Welcome back, %s\n", console.Identity().DisplayName())
			} else {
				fmt.Println("Not logged in. Use: login <username> <password>")
			}

			adminLoop(ctx, console)
			return nil
		},
	}
}

// adminLoop 逐行读取控制台命令
func adminLoop(ctx context.Context, console *admin.Console) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "login":
			if len(fields) != 3 {
				fmt.Println("usage: login <username> <password>")
				continue
			}
			if err := console.Login(ctx, fields[1], fields[2]); err != nil {
				fmt.Printf("!! Login failed: %s\n", errorMessage(err))
				continue
			}
			fmt.Printf("Welcome, %s\n", console.Identity().DisplayName())

		case "signup":
			if len(fields) < 4 {
				fmt.Println("usage: signup <username> <email> <password> [full name]")
				continue
			}
			req := request.AdminRegisterRequest{
				Username: fields[1],
				Email:    fields[2],
				Password: fields[3],
				FullName: strings.Join(fields[4:], " "),
			}
			if err := console.Register(ctx, req); err != nil {
				fmt.Printf("!! Registration failed: %s\n", errorMessage(err))
				continue
			}
			fmt.Printf("Welcome, %s\n", console.Identity().DisplayName())

		case "queue":
			console.RefreshQueue(ctx)
		case "active":
			console.RefreshActive(ctx)

		case "claim":
			if len(fields) != 2 {
				fmt.Println("usage: claim <session_id>")
				continue
			}
			if err := console.Claim(fields[1]); err != nil {
				fmt.Printf("!! %s\n", errorMessage(err))
			}

		case "say":
			if err := console.Send(strings.TrimSpace(strings.TrimPrefix(line, "say"))); err != nil {
				fmt.Printf("!! %s\n", errorMessage(err))
			}

		case "close":
			if err := console.CloseSession(); err != nil {
				fmt.Printf("!! %s\n", errorMessage(err))
			}

		case "logout":
			console.Logout()
			fmt.Println("Logged out")

		case "quit", "exit":
			return

		default:
			fmt.Println("commands: login signup queue active claim say close logout quit")
		}
	}
}
