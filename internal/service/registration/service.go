// Package registration 实现公司自助注册表单的控制逻辑
// 提交前在本地完成必填、slug 字符集、邮箱形式、密码长度四道闸门，
// 全部通过才发起唯一的一次注册请求
package registration

import (
	"context"
	"net/url"

	"support_chat_client/internal/apiclient"
	"support_chat_client/internal/dto/request"
	"support_chat_client/internal/validate"
	"support_chat_client/pkg/errorx"
	"support_chat_client/pkg/util/slug"
)

// Service 注册表单控制器
type Service struct {
	api *apiclient.Client
}

// Result 注册成功结果
type Result struct {
	Name        string // 公司名称
	Slug        string // 服务端确认的 slug
	RedirectUrl string // 延迟跳转目标：管理端登录页，携带 slug
}

// NewService 创建注册控制器
func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// DeriveSlug 随公司名称字段变化实时派生 slug
func (s *Service) DeriveSlug(name string) string {
	return slug.Generate(name)
}

// Submit 校验并提交注册
// 校验失败返回 CodeValidation，不发起网络请求；
// 网络失败与服务端拒绝分别以 CodeNetwork / CodeAPIError 返回
func (s *Service) Submit(ctx context.Context, req request.CompanyRegisterRequest) (*Result, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, err
	}

	resp, err := s.api.RegisterCompany(ctx, req)
	if err != nil {
		if errorx.IsNetwork(err) {
			return nil, errorx.Wrap(err, errorx.CodeNetwork,
				"Network error. Please check your connection and try again.")
		}
		return nil, err
	}

	return &Result{
		Name:        resp.Name,
		Slug:        resp.Slug,
		RedirectUrl: "/admin?registered=true&company=" + url.QueryEscape(resp.Slug),
	}, nil
}
