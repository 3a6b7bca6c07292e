package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"support_chat_client/internal/apiclient"
	"support_chat_client/internal/config"
	"support_chat_client/internal/dto/request"
	"support_chat_client/internal/service/registration"
	"support_chat_client/pkg/errorx"

	"github.com/spf13/cobra"
)

// newRegisterCmd 公司自助注册入口
// slug 未指定时由公司名称派生；校验失败不会发起网络请求
func newRegisterCmd(conf *config.Config) *cobra.Command {
	var req request.CompanyRegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "注册新的公司（租户）",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := registration.NewService(apiclient.New(conf.MainConfig.ApiUrl, nil))

			if req.Slug == "" {
				req.Slug = svc.DeriveSlug(req.Name)
				fmt.Printf("slug: %s\n", req.Slug)
			}

			result, err := svc.Submit(context.Background(), req)
			if err != nil {
				fmt.Printf("✗ %s\n", errorMessage(err))
				return err
			}

			fmt.Printf("✓ Account created successfully! Welcome to ChatBot SaaS, %s!\n", result.Name)
			// 与原产品一致：2 秒后跳转管理端登录页
			time.Sleep(2 * time.Second)
			fmt.Printf("→ %s%s\n", conf.MainConfig.ApiUrl, result.RedirectUrl)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Name, "name", "", "公司名称（必填）")
	flags.StringVar(&req.Slug, "slug", "", "公司 slug，缺省由名称派生")
	flags.StringVar(&req.Email, "email", "", "联系人邮箱（必填）")
	flags.StringVar(&req.Password, "password", "", "登录密码，至少 8 位（必填）")
	flags.StringVar(&req.Phone, "phone", "", "联系电话")
	flags.StringVar(&req.Website, "website", "", "公司网站")
	flags.StringVar(&req.Description, "description", "", "公司简介")
	return cmd
}

// errorMessage 提取面向用户的错误消息
func errorMessage(err error) string {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Msg
	}
	return err.Error()
}
