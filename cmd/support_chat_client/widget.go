package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"support_chat_client/internal/config"
	"support_chat_client/internal/service/widget"

	"github.com/spf13/cobra"
)

// widgetDisplay 访客挂件视图的终端实现
type widgetDisplay struct{}

func (widgetDisplay) AppendMessage(sender, content string) {
	fmt.Printf("[%s] %s\n", sender, content)
}

func (widgetDisplay) ShowNotice(text string) {
	fmt.Printf("-- %s\n", text)
}

func (widgetDisplay) SetBanner(text string) {
	fmt.Printf("-- %s\n", text)
}

func (widgetDisplay) ClearBanner() {}

func (widgetDisplay) SetStatus(status string) {
	fmt.Printf("== %s\n", status)
}

func (widgetDisplay) DisableInput() {
	fmt.Println("== Input disabled")
}

// newWidgetCmd 访客聊天挂件入口
func newWidgetCmd(conf *config.Config) *cobra.Command {
	var name, email, phone string

	cmd := &cobra.Command{
		Use:   "widget",
		Short: "访客聊天挂件",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := widget.New(widget.Options{
				ApiUrl:       conf.MainConfig.ApiUrl,
				WsUrl:        conf.MainConfig.WsUrl,
				Position:     conf.WidgetConfig.Position,
				PrimaryColor: conf.WidgetConfig.PrimaryColor,
				Greeting:     conf.WidgetConfig.Greeting,
				CompanyName:  conf.WidgetConfig.CompanyName,
				Reconnect:    conf.WidgetConfig.Reconnect,
			}, widgetDisplay{})
			defer w.Close()

			fmt.Printf("%s Support\n", w.Options().CompanyName)

			ctx := context.Background()
			if name != "" {
				if err := w.StartChat(ctx, name, email, phone); err != nil {
					fmt.Printf("!! %s\n", errorMessage(err))
					return err
				}
			} else {
				fmt.Println("Start a conversation: start <name> <email> <phone>")
			}

			widgetLoop(ctx, w)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "访客姓名")
	flags.StringVar(&email, "email", "", "访客邮箱")
	flags.StringVar(&phone, "phone", "", "访客电话")
	return cmd
}

// widgetLoop 逐行读取挂件命令，裸输入直接作为消息发送
func widgetLoop(ctx context.Context, w *widget.Widget) {
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
		case "start":
			if len(fields) != 4 {
				fmt.Println("usage: start <name> <email> <phone>")
				continue
			}
			if err := w.StartChat(ctx, fields[1], fields[2], fields[3]); err != nil {
				fmt.Printf("!! %s\n", errorMessage(err))
			}

		case "toggle":
			if w.Toggle() {
				fmt.Println("== panel open")
			} else {
				fmt.Println("== panel minimized")
			}

		case "quit", "exit":
			return

		default:
			if err := w.SendMessage(line); err != nil {
				fmt.Printf("!! %s\n", errorMessage(err))
			}
		}
	}
}
