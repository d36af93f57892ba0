package handler

import (
	"net/http"

	"github.com/vfg2006/affiliate-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/affiliate-dashboard-api/internal/usecases/rules"
	"github.com/vfg2006/affiliate-dashboard-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Stats(service reporting.CombinedReporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/stats",
			Method:      http.MethodGet,
			Handler:     GetStats(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/conversions",
			Method:      http.MethodGet,
			Handler:     GetConversions(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sub1-leads",
			Method:      http.MethodGet,
			Handler:     GetSub1Leads(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.ManagerOrSubManager()},
		},
		{
			Path:        "/v1/manager-epc",
			Method:      http.MethodGet,
			Handler:     GetManagerEPC(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.ManagerOnly()},
		},
		{
			// Ranking público com sub1s mascarados, sem autenticação
			Path:    "/v1/leaderboard",
			Method:  http.MethodGet,
			Handler: GetLeaderboard(service),
		},
		{
			Path:        "/v1/user-bonuses",
			Method:      http.MethodGet,
			Handler:     GetUserBonuses(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/traffic-summary",
			Method:      http.MethodGet,
			Handler:     GetTrafficSummary(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.ManagerOnly()},
		},
	}
}

func AdminSettings(ruleService rules.Manager, reporter reporting.CombinedReporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/admin/settings",
			Method:      http.MethodGet,
			Handler:     GetSettings(ruleService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/admin/settings",
			Method:      http.MethodPut,
			Handler:     UpdateSettings(ruleService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/admin/settings/phases/:sub1",
			Method:      http.MethodPut,
			Handler:     SetPhaseRules(ruleService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/admin/settings/sub-affiliates",
			Method:      http.MethodPut,
			Handler:     SetSubAffiliateRules(ruleService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/admin/sub1-list",
			Method:      http.MethodGet,
			Handler:     GetActiveSub1s(reporter),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id/sub1s",
			Method:      http.MethodPut,
			Handler:     UpdateUserSub1s(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
