package global

import (
	"sync"

	"github.com/hunt-ops/hunt-manager/pkg/services/etcd"
)

var (
	etcdInstance *etcd.Manager
	etcdOnce     sync.Once
)

func GetEtcdManager() *etcd.Manager {
	etcdOnce.Do(func() {
		etcdInstance = etcd.NewManager(etcd.Config{
			Endpoint: Conf.Etcd.Endpoint,
			Username: Conf.Etcd.Username,
			Password: Conf.Etcd.Password,
			Logger:   Log().Sub,
		})
	})
	return etcdInstance
}
