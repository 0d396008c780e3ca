package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
)

// SecurityHeaders adds security-related HTTP headers to responses
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderXContentTypeOptions, constants.ContentTypeOptionsNoSniff)
			w.Header().Set(constants.HeaderXFrameOptions, constants.FrameOptionsDeny)
			w.Header().Set(constants.HeaderXXSSProtection, constants.XSSProtectionModeBlock)
			w.Header().Set(constants.HeaderReferrerPolicy, constants.ReferrerPolicyStrictOrigin)
			w.Header().Set(constants.HeaderContentSecurityPolicy, constants.CSPDefaultSrc)

			next.ServeHTTP(w, r)
		})
	}
}

// NoStore marks responses as uncacheable. Applied to routes that return
// tokens or account data.
func NoStore() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderCacheControl, constants.CacheControlNoStore)
			w.Header().Set(constants.HeaderPragma, constants.PragmaNoCache)
			w.Header().Set(constants.HeaderExpires, constants.ExpiresZero)

			next.ServeHTTP(w, r)
		})
	}
}

// CORS applies cross-origin headers for allowed origins and answers
// preflight requests. Requests from other origins pass through without
// CORS headers, leaving enforcement to the browser.
func CORS(cfg *config.CORSSettings) func(http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		if origin == constants.CORSAllowAll {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	log.Debug().Strs("allowed_origins", cfg.AllowedOrigins).Msg("CORS configured")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			_, ok := allowed[origin]
			if !ok && !allowAll {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add(constants.HeaderVary, constants.HeaderOrigin)
			w.Header().Set(constants.HeaderAccessControlAllowOrigin, origin)
			if cfg.AllowCredentials {
				w.Header().Set(constants.HeaderAccessControlAllowCredentials, "true")
			}

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(constants.HeaderAccessControlAllowMethods, constants.CORSAllowedMethods)
			w.Header().Set(constants.HeaderAccessControlAllowHeaders, constants.CORSAllowedHeaders)
			w.Header().Set(constants.HeaderAccessControlMaxAge, constants.CORSMaxAge)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
