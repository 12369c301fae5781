package unifi

import "net/http"

// 操作名常量（网关对外的逻辑操作面）
const (
	OpListClients    = "list_clients"
	OpListAllClients = "list_all_clients"
	OpUpdateClient   = "update_client"

	OpListDevices = "list_devices"
	OpGetDevice   = "get_device"

	OpListNetworks     = "list_networks"
	OpGetNetwork       = "get_network"
	OpListWLANs        = "list_wlans"
	OpGetWLAN          = "get_wlan"
	OpListPortForwards = "list_port_forwards"
	OpGetPortForward   = "get_port_forward"

	OpListVPNProfiles = "list_vpn_profiles"
	OpGetVPNClient    = "get_vpn_client"
	OpVPNStats        = "vpn_stats"

	OpSystemHealth   = "system_health"
	OpSystemInfo     = "system_info"
	OpSiteStatus     = "site_status"
	OpGetSetting     = "get_setting"
	OpLatestFirmware = "latest_firmware"
	OpListSites      = "list_sites"
	OpListAdmins     = "list_admins"

	OpListFirewallPolicies  = "list_firewall_policies"
	OpUpdateFirewallPolicy  = "update_firewall_policy"
	OpBatchFirewallPolicies = "batch_firewall_policies"
	OpListFirewallZones     = "list_firewall_zones"
	OpListIPGroups          = "list_ip_groups"

	OpListTrafficRoutes  = "list_traffic_routes"
	OpGetTrafficRoute    = "get_traffic_route"
	OpUpdateTrafficRoute = "update_traffic_route"
	OpDeleteTrafficRoute = "delete_traffic_route"

	OpClientCommands = "client_commands"
	OpDeviceCommands = "device_commands"
	OpSiteCommands   = "site_commands"
	OpSystemCommands = "system_commands"
	OpBackupCommands = "backup_commands"
)

// DefaultCatalog 默认端点目录
// 路径与回退顺序来自各固件版本的实测行为；/trafficroutes 与 /trafficrules
// 在不同固件上互斥存在，以回退对的形式注册，运行期缓存实际可用的那个
func DefaultCatalog() *Catalog {
	return NewCatalog(
		// --- 客户端 ---
		Operation{Name: OpListClients, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/stat/sta"}},
		Operation{Name: OpListAllClients, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/rest/user"}},
		Operation{Name: OpUpdateClient, Generation: GenerationV1, Method: http.MethodPut,
			Paths: []string{"/upd/user/{client_id}"}},

		// --- 设备 ---
		Operation{Name: OpListDevices, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/stat/device"}},
		Operation{Name: OpGetDevice, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/rest/device/{device_id}"}},

		// --- 网络配置 ---
		Operation{Name: OpListNetworks, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/rest/networkconf"}},
		Operation{Name: OpGetNetwork, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/rest/networkconf/{network_id}"}},
		Operation{Name: OpListWLANs, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/rest/wlanconf"}},
		Operation{Name: OpGetWLAN, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/rest/wlanconf/{wlan_id}"}},
		Operation{Name: OpListPortForwards, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/rest/portforward"}},
		Operation{Name: OpGetPortForward, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/rest/portforward/{rule_id}"}},

		// --- VPN ---
		Operation{Name: OpListVPNProfiles, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/rest/vpnprofile"}},
		Operation{Name: OpGetVPNClient, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/rest/vpnclient/{client_id}"}},
		Operation{Name: OpVPNStats, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/stat/vpn"}},

		// --- 系统与站点 ---
		Operation{Name: OpSystemHealth, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/stat/health"}},
		Operation{Name: OpSystemInfo, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/stat/sysinfo"}},
		Operation{Name: OpSiteStatus, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/stat/status"}},
		Operation{Name: OpGetSetting, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/get/setting/{section}"}},
		Operation{Name: OpLatestFirmware, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/stat/fwupdate/latest-version"}},
		Operation{Name: OpListSites, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/api/self/sites"}, Absolute: true},
		Operation{Name: OpListAdmins, Generation: GenerationV1, Method: http.MethodGet,
			Paths: []string{"/api/stat/admin"}, Absolute: true},

		// --- 防火墙（V2）---
		Operation{Name: OpListFirewallPolicies, Generation: GenerationV2, Method: http.MethodGet,
			Paths: []string{"/firewall-policies"}},
		Operation{Name: OpUpdateFirewallPolicy, Generation: GenerationV2, Method: http.MethodPut,
			Paths: []string{"/firewall-policies/{policy_id}"}},
		Operation{Name: OpBatchFirewallPolicies, Generation: GenerationV2, Method: http.MethodPut,
			Paths: []string{"/firewall-policies/batch"}},
		Operation{Name: OpListFirewallZones, Generation: GenerationV2, Method: http.MethodGet,
			Paths: []string{"/firewall/zones"}},
		Operation{Name: OpListIPGroups, Generation: GenerationV2, Method: http.MethodGet,
			Paths: []string{"/ip-groups"}},

		// --- 流量路由（V2，固件间路径不稳定）---
		Operation{Name: OpListTrafficRoutes, Generation: GenerationV2, Method: http.MethodGet,
			Paths: []string{"/trafficroutes", "/trafficrules"}},
		Operation{Name: OpGetTrafficRoute, Generation: GenerationV2, Method: http.MethodGet,
			Paths: []string{"/trafficroutes/{route_id}", "/trafficrules/{route_id}"}},
		Operation{Name: OpUpdateTrafficRoute, Generation: GenerationV2, Method: http.MethodPut,
			Paths: []string{"/trafficroutes/{route_id}", "/trafficrules/{route_id}"}},
		Operation{Name: OpDeleteTrafficRoute, Generation: GenerationV2, Method: http.MethodDelete,
			Paths: []string{"/trafficroutes/{route_id}", "/trafficrules/{route_id}"}},

		// --- 命令端点（路径固定，不参与回退）---
		Operation{Name: OpClientCommands, Generation: GenerationV1, Method: http.MethodPost,
			Paths: []string{"/cmd/stamgr"}, Commands: clientCommands()},
		Operation{Name: OpDeviceCommands, Generation: GenerationV1, Method: http.MethodPost,
			Paths: []string{"/cmd/devmgr"}, Commands: deviceCommands()},
		Operation{Name: OpSiteCommands, Generation: GenerationV1, Method: http.MethodPost,
			Paths: []string{"/cmd/sitemgr"}, Commands: siteCommands()},
		Operation{Name: OpSystemCommands, Generation: GenerationV1, Method: http.MethodPost,
			Paths: []string{"/cmd/system"}, Commands: systemCommands()},
		Operation{Name: OpBackupCommands, Generation: GenerationV1, Method: http.MethodPost,
			Paths: []string{"/cmd/backup"}, Commands: backupCommands()},
	)
}
