package identity

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const CtxActorKey = "actor_id"

// Extract: Authorization: Bearer <token> を検証して操作者IDを context に詰める。
// 認証そのものは外部（社内ポータル）の責務。ここでは履歴の performed_by と
// マイページ集計のための操作者特定だけを行い、トークンが無くても弾かない。
func Extract(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			c.Next()
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			// alg 固定（none攻撃とか回避）
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || token == nil || !token.Valid {
			c.Next()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if sub, ok := claims["sub"].(string); ok && sub != "" {
				c.Set(CtxActorKey, sub)
			}
		}
		c.Next()
	}
}

// Actor は context 上の操作者IDを返す。未特定なら空文字。
func Actor(c *gin.Context) string {
	v, ok := c.Get(CtxActorKey)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
