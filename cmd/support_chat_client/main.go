package main

import (
	"fmt"
	"log"
	"os"

	"support_chat_client/internal/config"
	"support_chat_client/internal/infrastructure/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "support_chat_client",
	Short: "多租户客服聊天产品的终端客户端",
	Long: "support_chat_client 提供三个入口：\n" +
		"  register  公司（租户）自助注册\n" +
		"  admin     运营端控制台\n" +
		"  widget    访客聊天挂件",
}

func main() {
	// 1. 加载 .env（可选，用于覆盖 API 地址等）
	_ = godotenv.Load()

	// 2. 加载配置
	conf := config.GetConfig()

	// 3. 初始化日志
	mode := os.Getenv("SUPPORT_CHAT_MODE")
	if mode == "" {
		mode = "release"
	}
	if err := logger.Init(&conf.LogConfig, mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}

	// 4. 注册子命令并执行
	rootCmd.AddCommand(newRegisterCmd(conf))
	rootCmd.AddCommand(newAdminCmd(conf))
	rootCmd.AddCommand(newWidgetCmd(conf))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
