package unifi

// 命令端点的动作集合
// 多个控制器动作共用同一路径，仅靠请求体中的 cmd 字段区分，
// 在发起网络调用前校验，避免把不支持的命令发给控制器后收到含糊的失败

// ClientCommand 客户端管理命令（/cmd/stamgr）
type ClientCommand string

const (
	ClientBlock            ClientCommand = "block-sta"
	ClientUnblock          ClientCommand = "unblock-sta"
	ClientKick             ClientCommand = "kick-sta"
	ClientForget           ClientCommand = "forget-sta"
	ClientAuthorizeGuest   ClientCommand = "authorize-guest"
	ClientUnauthorizeGuest ClientCommand = "unauthorize-guest"
)

// DeviceCommand 设备管理命令（/cmd/devmgr）
type DeviceCommand string

const (
	DeviceAdopt      DeviceCommand = "adopt"
	DeviceRestart    DeviceCommand = "restart"
	DeviceUpgrade    DeviceCommand = "upgrade"
	DeviceProvision  DeviceCommand = "provision"
	DevicePowerCycle DeviceCommand = "power-cycle"
)

// SiteCommand 站点与管理员命令（/cmd/sitemgr）
type SiteCommand string

const (
	SiteAdd         SiteCommand = "add-site"
	SiteUpdate      SiteCommand = "update-site"
	SiteDelete      SiteCommand = "delete-site"
	SiteCreateAdmin SiteCommand = "create-admin"
	SiteUpdateAdmin SiteCommand = "update-admin"
	SiteInviteAdmin SiteCommand = "invite-admin"
	SiteRevokeAdmin SiteCommand = "revoke-admin"
)

// SystemCommand 系统命令（/cmd/system）
type SystemCommand string

const (
	SystemUpgrade SystemCommand = "upgrade"
	SystemReboot  SystemCommand = "reboot"
)

// BackupCommand 备份命令（/cmd/backup）
type BackupCommand string

const (
	BackupCreate BackupCommand = "backup"
	BackupList   BackupCommand = "list-backups"
	BackupDelete BackupCommand = "delete-backup"
)

func clientCommands() []string {
	return []string{
		string(ClientBlock), string(ClientUnblock), string(ClientKick),
		string(ClientForget), string(ClientAuthorizeGuest), string(ClientUnauthorizeGuest),
	}
}

func deviceCommands() []string {
	return []string{
		string(DeviceAdopt), string(DeviceRestart), string(DeviceUpgrade),
		string(DeviceProvision), string(DevicePowerCycle),
	}
}

func siteCommands() []string {
	return []string{
		string(SiteAdd), string(SiteUpdate), string(SiteDelete),
		string(SiteCreateAdmin), string(SiteUpdateAdmin),
		string(SiteInviteAdmin), string(SiteRevokeAdmin),
	}
}

func systemCommands() []string {
	return []string{string(SystemUpgrade), string(SystemReboot)}
}

func backupCommands() []string {
	return []string{string(BackupCreate), string(BackupList), string(BackupDelete)}
}
