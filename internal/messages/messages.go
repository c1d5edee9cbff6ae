package messages

// User-facing texts. Markdown is enabled on every outgoing message,
// so inline code spans and bold markers render in Telegram clients.
const (
	MsgWarning = "⚠️ @%s, you can only send 1 message per %d hours.\nPlease wait %s before sending another message."

	MsgReasonCooldown = "cooldown"

	MsgAdminsOnly = "❌ This command is for group admins only."

	MsgStatusEmpty  = "📊 No messages recorded in the current window."
	MsgStatusHeader = "📊 **Message Records**\n\n"
	MsgStatusLine   = "• User ID `%s`: %s ago\n"
	MsgStatusFooter = "\n**Total: %d users**"

	MsgDuplicatesHeader = "⚠️ **Duplicate Users Found Today:**\n"
	MsgDuplicatesLine   = "• User ID: `%d` (chats: %s)\n"
	MsgDuplicatesEmpty  = "✅ No duplicate user messages found today."

	MsgResetDone     = "✅ Reset cooldown for user ID: `%d`"
	MsgResetNotFound = "ℹ️ User ID `%d` not found in records."

	MsgAdminAdded    = "✅ User `%d` added to custom admins."
	MsgAdminExists   = "ℹ️ User `%d` is already a custom admin."
	MsgAdminRemoved  = "✅ User `%d` removed from custom admins."
	MsgAdminMissing  = "ℹ️ User `%d` is not a custom admin."
	MsgAdminsEmpty   = "ℹ️ No custom admins configured for this chat."
	MsgAdminsHeader  = "👮 **Custom Admins:**\n"
	MsgAdminsLine    = "• `%d`\n"
	MsgOwnerGateFail = "❌ Only real chat admins can manage custom admins."

	MsgCooldownSet       = "✅ Cooldown for user `%d` set to %d hours."
	MsgCooldownUnlimited = "✅ User `%d` may now post without limit."
	MsgCooldownRemoved   = "✅ Cooldown override removed for user `%d`."
	MsgCooldownMissing   = "ℹ️ No cooldown override for user `%d`."
	MsgCooldownsEmpty    = "ℹ️ No cooldown overrides for this chat."
	MsgCooldownsHeader   = "⏱ **Cooldown Overrides:**\n"
	MsgCooldownsLine     = "• User `%d`: %d hours\n"

	MsgPing = "🏓 Up %s • CPU %.2f%% • RAM %d MB"

	MsgCommandFailed = "❌ Error: %s"

	MsgUsageReset         = "Usage: /reset <user_id>"
	MsgUsageAddAdmin      = "Usage: /addadmin <user_id>"
	MsgUsageRemoveAdmin   = "Usage: /removeadmin <user_id>"
	MsgUsageSetCooldown   = "Usage: /setcooldown <user_id> <hours> (0 = unlimited)"
	MsgUsageResetCooldown = "Usage: /resetcooldown <user_id>"
	MsgUsageNegativeHours = "Hours must be 0 or greater."

	MsgHelp = `🤖 **Topic Message Limiter Bot**

This bot limits users to 1 message per cooldown window in the monitored topic.

**Commands (Admin Only):**
• ` + "`/status`" + ` - View current message records
• ` + "`/check_duplicates`" + ` - Check for duplicate users today
• ` + "`/reset <user_id>`" + ` - Reset a user's cooldown
• ` + "`/addadmin <user_id>`" + ` - Grant a user admin exemption
• ` + "`/removeadmin <user_id>`" + ` - Revoke a user's admin exemption
• ` + "`/listadmins`" + ` - List custom admins
• ` + "`/setcooldown <user_id> <hours>`" + ` - Override a user's cooldown (0 = unlimited)
• ` + "`/resetcooldown <user_id>`" + ` - Remove a user's cooldown override
• ` + "`/listcooldowns`" + ` - List cooldown overrides
• ` + "`/ping`" + ` - Bot liveness and resource usage
• ` + "`/help`" + ` - Show this message

**How it works:**
1. Users can send only 1 message per cooldown window in the topic
2. Additional messages are automatically deleted
3. A temporary warning is shown to the user`
)
