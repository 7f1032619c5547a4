package web

import (
	"fmt"
	"time"
)

var catalogs = map[string]map[string]string{
	"ko": {
		"app.title":                "소셜",
		"common.back":              "← 뒤로가기",
		"common.save":              "저장",
		"common.cancel":            "취소",
		"common.edit":              "수정",
		"common.delete":            "삭제",
		"common.confirm":           "확인",
		"common.anonymous":         "익명",
		"common.back_to_dashboard": "대시보드로 돌아가기",

		"error.unknown":      "알 수 없는 오류가 발생했습니다.",
		"error.forbidden":    "권한이 없습니다.",
		"error.rate_limited": "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
		"error.not_found":    "페이지를 찾을 수 없습니다.",

		"field.email":            "이메일",
		"field.password":         "비밀번호",
		"field.nickname":         "닉네임",
		"field.confirm_password": "비밀번호 확인",

		"validation.email":             "유효한 이메일을 입력해주세요.",
		"validation.password_min":      "비밀번호는 최소 6자 이상이어야 합니다.",
		"validation.nickname_min":      "닉네임은 최소 2자 이상이어야 합니다.",
		"validation.password_mismatch": "비밀번호가 일치하지 않습니다.",

		"login.title":           "로그인",
		"login.description":     "이메일과 비밀번호를 입력하여 로그인하세요.",
		"login.submit":          "로그인",
		"login.failed":          "로그인에 실패했습니다.",
		"login.no_token":        "토큰을 받지 못했습니다.",
		"login.no_account":      "계정이 없으신가요?",
		"login.forgot":          "비밀번호를 잊으셨나요?",
		"login.registered":      "회원가입이 완료되었습니다. 로그인해주세요.",
		"register.title":        "회원가입",
		"register.description":  "새 계정을 만들어 시작하세요.",
		"register.submit":       "회원가입",
		"register.failed":       "회원가입에 실패했습니다.",
		"register.have_account": "이미 계정이 있으신가요?",
		"forgot.title":          "비밀번호 찾기",
		"forgot.description":    "가입한 이메일을 입력하세요.",
		"forgot.submit":         "재설정 링크 보내기",
		"forgot.unsupported":    "현재 비밀번호 찾기 기능은 서버에서 지원하지 않습니다. (개발 중)",

		"dashboard.title":        "피드",
		"dashboard.new_post":     "새 게시물",
		"dashboard.logout":       "로그아웃",
		"dashboard.empty":        "아직 게시물이 없습니다.",
		"dashboard.server_error": "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요.",
		"dashboard.load_failed":  "데이터를 불러오는데 실패했습니다.",
		"dashboard.comments":     "댓글 %d개",

		"create.title":               "새 게시물 작성",
		"create.images":              "이미지 선택",
		"create.caption":             "캡션",
		"create.caption_placeholder": "게시물에 대한 설명을 입력하세요...",
		"create.submit":              "게시하기",
		"create.failed":              "게시물 작성에 실패했습니다.",
		"create.image_invalid":       "이미지 파일만 업로드할 수 있습니다.",
		"create.image_too_large":     "이미지 크기가 너무 큽니다.",

		"post.not_found":           "게시물을 찾을 수 없습니다.",
		"post.load_failed":         "게시물을 불러오는데 실패했습니다.",
		"post.update_failed":       "게시물 수정에 실패했습니다.",
		"post.delete_failed":       "게시물 삭제에 실패했습니다.",
		"post.confirm_delete":      "정말 이 게시물을 삭제하시겠습니까?",
		"post.caption_placeholder": "캡션을 입력하세요...",
		"post.image_alt":           "게시물 이미지",

		"comment.heading":        "댓글 %d개",
		"comment.empty":          "아직 댓글이 없습니다.",
		"comment.placeholder":    "댓글을 입력하세요...",
		"comment.submit":         "작성",
		"comment.reply":          "답글",
		"comment.replying":       "답글 작성 중...",
		"comment.create_failed":  "댓글 작성에 실패했습니다.",
		"comment.update_failed":  "댓글 수정에 실패했습니다.",
		"comment.delete_failed":  "댓글 삭제에 실패했습니다.",
		"comment.confirm_delete": "정말 이 댓글을 삭제하시겠습니까?",
		"comment.not_found":      "댓글을 찾을 수 없습니다.",
		"comment.parent_missing": "답글을 달 댓글을 찾을 수 없습니다.",
	},
	"en": {
		"app.title":                "Social",
		"common.back":              "← Back",
		"common.save":              "Save",
		"common.cancel":            "Cancel",
		"common.edit":              "Edit",
		"common.delete":            "Delete",
		"common.confirm":           "Confirm",
		"common.anonymous":         "Anonymous",
		"common.back_to_dashboard": "Back to dashboard",

		"error.unknown":      "An unknown error occurred.",
		"error.forbidden":    "You are not allowed to do that.",
		"error.rate_limited": "Too many requests. Please try again shortly.",
		"error.not_found":    "Page not found.",

		"field.email":            "Email",
		"field.password":         "Password",
		"field.nickname":         "Nickname",
		"field.confirm_password": "Confirm password",

		"validation.email":             "Please enter a valid email.",
		"validation.password_min":      "Password must be at least 6 characters.",
		"validation.nickname_min":      "Nickname must be at least 2 characters.",
		"validation.password_mismatch": "Passwords do not match.",

		"login.title":           "Sign in",
		"login.description":     "Enter your email and password to sign in.",
		"login.submit":          "Sign in",
		"login.failed":          "Sign in failed.",
		"login.no_token":        "No token was received.",
		"login.no_account":      "Don't have an account?",
		"login.forgot":          "Forgot your password?",
		"login.registered":      "Registration complete. Please sign in.",
		"register.title":        "Sign up",
		"register.description":  "Create an account to get started.",
		"register.submit":       "Sign up",
		"register.failed":       "Sign up failed.",
		"register.have_account": "Already have an account?",
		"forgot.title":          "Forgot password",
		"forgot.description":    "Enter the email you registered with.",
		"forgot.submit":         "Send reset link",
		"forgot.unsupported":    "Password reset is not supported by the server yet.",

		"dashboard.title":        "Feed",
		"dashboard.new_post":     "New post",
		"dashboard.logout":       "Sign out",
		"dashboard.empty":        "No posts yet.",
		"dashboard.server_error": "A server error occurred. Please try again later.",
		"dashboard.load_failed":  "Failed to load data.",
		"dashboard.comments":     "%d comments",

		"create.title":               "New post",
		"create.images":              "Choose images",
		"create.caption":             "Caption",
		"create.caption_placeholder": "Say something about this post...",
		"create.submit":              "Publish",
		"create.failed":              "Failed to create the post.",
		"create.image_invalid":       "Only image files can be uploaded.",
		"create.image_too_large":     "An image is too large.",

		"post.not_found":           "Post not found.",
		"post.load_failed":         "Failed to load the post.",
		"post.update_failed":       "Failed to update the post.",
		"post.delete_failed":       "Failed to delete the post.",
		"post.confirm_delete":      "Delete this post?",
		"post.caption_placeholder": "Write a caption...",
		"post.image_alt":           "Post image",

		"comment.heading":        "%d comments",
		"comment.empty":          "No comments yet.",
		"comment.placeholder":    "Write a comment...",
		"comment.submit":         "Post",
		"comment.reply":          "Reply",
		"comment.replying":       "Replying...",
		"comment.create_failed":  "Failed to post the comment.",
		"comment.update_failed":  "Failed to update the comment.",
		"comment.delete_failed":  "Failed to delete the comment.",
		"comment.confirm_delete": "Delete this comment?",
		"comment.not_found":      "Comment not found.",
		"comment.parent_missing": "The comment you are replying to no longer exists.",
	},
}

const defaultLocale = "ko"

// Catalog resolves message keys for one locale, falling back to Korean and
// then to the key itself.
type Catalog struct {
	locale string
	msgs   map[string]string
}

func NewCatalog(locale string) Catalog {
	msgs, ok := catalogs[locale]
	if !ok {
		locale, msgs = defaultLocale, catalogs[defaultLocale]
	}
	return Catalog{locale: locale, msgs: msgs}
}

func (c Catalog) Locale() string { return c.locale }

func (c Catalog) T(key string, args ...any) string {
	msg, ok := c.msgs[key]
	if !ok {
		if msg, ok = catalogs[defaultLocale][key]; !ok {
			return key
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

var seoul = time.FixedZone("KST", 9*60*60)

// Date renders the short form used next to comments.
func (c Catalog) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if c.locale == "ko" {
		return t.In(seoul).Format("2006. 1. 2.")
	}
	return t.UTC().Format("1/2/2006")
}

// LongDate renders the post date, e.g. 2025년 3월 1일.
func (c Catalog) LongDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if c.locale == "ko" {
		return t.In(seoul).Format("2006년 1월 2일")
	}
	return t.UTC().Format("January 2, 2006")
}
